package app

import (
	"fmt"

	"github.com/muhammad-salman-webdev/planr/internal/credential"
	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/source"
	"github.com/muhammad-salman-webdev/planr/internal/source/email"
	"github.com/muhammad-salman-webdev/planr/internal/source/google"
)

// buildSource constructs the provider adapter for an import run.
// Secrets come from the system keyring; connection details for the
// email provider come from the config file.
func buildSource(
	provider model.ProviderType,
	cfg *model.AppConfig,
) (source.Source, error) {
	switch provider {
	case model.ProviderGoogle:
		token, err := credential.Get(credential.Key(model.ProviderGoogle))
		if err != nil || token == "" {
			return nil, fmt.Errorf(
				"no Google access token stored; run `planr auth google <token>` first",
			)
		}
		return google.NewAdapter(token, ""), nil

	case model.ProviderEmail:
		if cfg.Import.IMAPHost == "" || cfg.Import.IMAPUser == "" {
			return nil, fmt.Errorf(
				"email import needs imap_host and imap_user in the config file",
			)
		}
		password, err := credential.Get(credential.Key(model.ProviderEmail))
		if err != nil || password == "" {
			return nil, fmt.Errorf(
				"no IMAP password stored; run `planr auth email <password>` first",
			)
		}
		return email.NewAdapter(
			cfg.Import.IMAPHost,
			cfg.Import.IMAPPort,
			cfg.Import.IMAPUser,
			password,
			cfg.Import.IMAPTLS,
		), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
