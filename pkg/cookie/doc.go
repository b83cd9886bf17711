// Package cookie writes and reads HTTP cookies with shared defaults and
// optional AES-GCM encryption.
//
// Plain cookies carry opaque values issued elsewhere (for example the
// backend session secret). Encrypted cookies carry small server-side state
// that must survive a redirect without being readable or forgeable by the
// client, such as the pending OTP challenge. Several secrets may be
// configured: the first encrypts, all of them are tried on decrypt, which
// allows key rotation.
package cookie
