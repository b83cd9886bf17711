// Package config loads environment-backed configuration structs.
//
// Each package in the module declares its own Config struct with `env`
// tags; Load fills it from the process environment after reading an
// optional .env file once per process. Parsed values are cached per type so
// repeated loads from different call sites agree.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
