package users

// DefaultAvatarURL is assigned to every new user.
const DefaultAvatarURL = "https://imgs.search.brave.com/jIWDTvWdtOzLLrexzyqOdw1CCh9mD0xKEn2o38HGGnI/rs:fit:860:0:0:0/g:ce/aHR0cHM6Ly9pbWcu/ZnJlZXBpay5jb20v/cGhvdG9zLXByZW1p/dW0vaG9tbWVzLW9u/dC1jb25jdS1sb2dv/LWF2YXRhcl82NjUy/ODAtNjk0MjcuanBn/P3NlbXQ9YWlzX2h5/YnJpZCZ3PTc0MA"

type Config struct {
	DatabaseID   string `env:"APPWRITE_DATABASE,required"`
	CollectionID string `env:"APPWRITE_USERS_COLLECTION,required"`
	AvatarURL    string `env:"USERS_AVATAR_URL"`
}

func (c Config) avatar() string {
	if c.AvatarURL == "" {
		return DefaultAvatarURL
	}
	return c.AvatarURL
}
