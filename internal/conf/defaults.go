package conf

import (
	"github.com/spf13/viper"
)

// defaultSettings returns the settings used when no config file exists.
func defaultSettings() *Settings {
	return &Settings{
		Debug: false,
		Main: MainSettings{
			Name: "parque-la-amistad",
			Log: LogConfig{
				Enabled:    true,
				Path:       "logs/residuos.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
		Data: DataSettings{
			Dir:         "dataset",
			EvidenceDir: "evidencias",
			LoadPolicy:  LoadPolicyLenient,
			DeleteModes: map[string]string{
				"residuos":     DeleteModeSoft,
				"zonas":        DeleteModeHard,
				"veterinarios": DeleteModeHard,
				"actividades":  DeleteModeHard,
				"encuestas":    DeleteModeHard,
			},
		},
		Validation: ValidationSettings{
			WeightMinKg:       0.1,
			WeightMaxKg:       1000,
			MaxUploadSizeMB:   5,
			AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		},
		Backup: BackupConfig{
			Enabled:     true,
			Path:        "backups",
			Timestamped: true,
			MaxBackups:  10,
		},
		WebServer: WebServerSettings{
			Enabled: false,
			Address: "0.0.0.0",
			Port:    "8080",
		},
	}
}

// setDefaultConfig registers every default value with viper so a partial
// config file is backfilled field by field.
func setDefaultConfig() {
	d := defaultSettings()

	viper.SetDefault("debug", d.Debug)
	viper.SetDefault("main.name", d.Main.Name)
	viper.SetDefault("main.log.enabled", d.Main.Log.Enabled)
	viper.SetDefault("main.log.path", d.Main.Log.Path)
	viper.SetDefault("main.log.maxsizemb", d.Main.Log.MaxSizeMB)
	viper.SetDefault("main.log.maxbackups", d.Main.Log.MaxBackups)
	viper.SetDefault("main.log.maxagedays", d.Main.Log.MaxAgeDays)
	viper.SetDefault("data.dir", d.Data.Dir)
	viper.SetDefault("data.evidencedir", d.Data.EvidenceDir)
	viper.SetDefault("data.loadpolicy", d.Data.LoadPolicy)
	viper.SetDefault("data.deletemodes", d.Data.DeleteModes)
	viper.SetDefault("validation.weightminkg", d.Validation.WeightMinKg)
	viper.SetDefault("validation.weightmaxkg", d.Validation.WeightMaxKg)
	viper.SetDefault("validation.maxuploadsizemb", d.Validation.MaxUploadSizeMB)
	viper.SetDefault("validation.allowedextensions", d.Validation.AllowedExtensions)
	viper.SetDefault("backup.enabled", d.Backup.Enabled)
	viper.SetDefault("backup.path", d.Backup.Path)
	viper.SetDefault("backup.timestamped", d.Backup.Timestamped)
	viper.SetDefault("backup.maxbackups", d.Backup.MaxBackups)
	viper.SetDefault("webserver.enabled", d.WebServer.Enabled)
	viper.SetDefault("webserver.address", d.WebServer.Address)
	viper.SetDefault("webserver.port", d.WebServer.Port)
}
