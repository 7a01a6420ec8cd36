package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"app": map[string]interface{}{
			"name": "general",
		},
		"database": map[string]interface{}{
			"path": "~/.notetracker/notetracker.db",
		},
		"scheduler": map[string]interface{}{
			"enabled":  true,
			"interval": 60, // check for due reminders every minute
		},
		"smtp": map[string]interface{}{
			"host":     "smtp.gmail.com",
			"port":     587,
			"sender":   "",
			"password": "",
		},
		"telegram": map[string]interface{}{
			"bot_token": "",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.notetracker/config.yaml"
}
