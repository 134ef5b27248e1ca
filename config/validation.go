package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration is usable for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	if GetEnvironment() == Production && cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required in production"}.Error())
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DatabasePath == "" {
			errs = append(errs, ValidationError{"DATABASE_PATH", "is required for the sqlite driver"}.Error())
		}
	case "postgres":
		if cfg.DBUser == "" {
			errs = append(errs, ValidationError{"DB_USER", "is required for the postgres driver"}.Error())
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required for the postgres driver"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	switch cfg.StorageBackend {
	case "local":
		if cfg.UploadDir == "" {
			errs = append(errs, ValidationError{"UPLOAD_DIR", "is required for local storage"}.Error())
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for s3 storage"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.StorageBackend)}.Error())
	}

	switch cfg.MailProvider {
	case "log":
	case "smtp":
		if cfg.SMTPHost == "" || cfg.MailFrom == "" {
			errs = append(errs, ValidationError{"SMTP_HOST", "SMTP_HOST and EMAIL_FROM are required for smtp mail"}.Error())
		}
	case "resend":
		if cfg.ResendAPIKey == "" || cfg.MailFrom == "" {
			errs = append(errs, ValidationError{"RESEND_API_KEY", "RESEND_API_KEY and EMAIL_FROM are required for resend mail"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"MAIL_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.MailProvider)}.Error())
	}

	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, ValidationError{"CORS_ORIGINS", fmt.Sprintf("origin %q must start with http:// or https://", origin)}.Error())
		}
	}

	for key, spec := range map[string]string{"NOTIFY_CRON": cfg.NotifyCron, "RECONCILE_CRON": cfg.ReconcileCron} {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, ValidationError{key, err.Error()}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
