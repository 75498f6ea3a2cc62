package conf

import (
	"fmt"
	"strings"

	"github.com/ecoparque/residuos-go/internal/errors"
)

func configErr(format string, args ...any) error {
	return errors.Newf(format, args...).
		Component("conf").
		Category(errors.CategoryConfiguration).
		Build()
}

// ValidateSettings checks the loaded settings for internal consistency.
func ValidateSettings(settings *Settings) error {
	if settings.Data.Dir == "" {
		return configErr("data.dir must not be empty")
	}
	if settings.Data.EvidenceDir == "" {
		return configErr("data.evidencedir must not be empty")
	}

	switch settings.Data.LoadPolicy {
	case LoadPolicyLenient, LoadPolicyStrict:
	default:
		return configErr("data.loadpolicy must be %q or %q, got %q",
			LoadPolicyLenient, LoadPolicyStrict, settings.Data.LoadPolicy)
	}

	for entity, mode := range settings.Data.DeleteModes {
		if mode != DeleteModeHard && mode != DeleteModeSoft {
			return configErr("data.deletemodes.%s must be %q or %q, got %q",
				entity, DeleteModeHard, DeleteModeSoft, mode)
		}
	}

	v := &settings.Validation
	if v.WeightMinKg <= 0 {
		return configErr("validation.weightminkg must be positive, got %v", v.WeightMinKg)
	}
	if v.WeightMaxKg <= v.WeightMinKg {
		return configErr("validation.weightmaxkg (%v) must exceed weightminkg (%v)",
			v.WeightMaxKg, v.WeightMinKg)
	}
	if v.MaxUploadSizeMB <= 0 {
		return configErr("validation.maxuploadsizemb must be positive, got %v", v.MaxUploadSizeMB)
	}
	for _, ext := range v.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return configErr("validation.allowedextensions entries must start with a dot, got %q", ext)
		}
	}

	if settings.Backup.Enabled && settings.Backup.Path == "" {
		return configErr("backup.path must not be empty when backups are enabled")
	}
	if settings.Backup.MaxBackups < 0 {
		return configErr("backup.maxbackups must not be negative, got %d", settings.Backup.MaxBackups)
	}

	if settings.WebServer.Enabled && settings.WebServer.Port == "" {
		return configErr("webserver.port must not be empty when the server is enabled")
	}

	if err := validateLog(&settings.Main.Log); err != nil {
		return err
	}

	return nil
}

func validateLog(log *LogConfig) error {
	if !log.Enabled {
		return nil
	}
	if log.Path == "" {
		return configErr("main.log.path must not be empty when file logging is enabled")
	}
	if log.MaxSizeMB < 0 || log.MaxBackups < 0 || log.MaxAgeDays < 0 {
		return configErr("main.log rotation settings must not be negative")
	}
	return nil
}

// String renders a short description of the active settings for startup logs.
func (s *Settings) String() string {
	return fmt.Sprintf("data=%s evidence=%s policy=%s backup=%v weight=[%v,%v]",
		s.Data.Dir, s.Data.EvidenceDir, s.Data.LoadPolicy,
		s.Backup.Enabled, s.Validation.WeightMinKg, s.Validation.WeightMaxKg)
}
