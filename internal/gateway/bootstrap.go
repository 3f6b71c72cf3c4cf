package gateway

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nulzo/metasearch/internal/cli"
	"github.com/nulzo/metasearch/internal/config"
	"github.com/nulzo/metasearch/internal/httpclient"
	"github.com/nulzo/metasearch/internal/llm"
	"go.uber.org/zap"
)

// BootstrapProviders builds and registers every enabled provider in
// configuration order. A provider without an API key is still registered so
// that it reports a missing credential in each response. client may be nil.
func BootstrapProviders(ctx context.Context, service Service, providers []config.ProviderConfig, client httpclient.HTTPClient, log *zap.Logger) int {
	registeredCount := 0
	validate := validator.New()
	log.Debug("Provider adapters available", zap.Strings("types", llm.Types()))

	for _, pCfg := range providers {
		if !pCfg.Enabled {
			continue
		}

		if err := validate.Struct(&pCfg); err != nil {
			log.Error("Invalid provider configuration", zap.String("id", pCfg.ID), zap.Error(err))
			continue
		}

		providerInstance, err := llm.NewProvider(pCfg, client)
		if err != nil {
			log.Error("Failed to initialize provider",
				zap.String("id", pCfg.ID),
				zap.String("type", pCfg.Type),
				zap.Error(err),
			)
			continue
		}

		if err := service.RegisterProvider(ctx, providerInstance); err != nil {
			log.Error("Failed to register provider", zap.String("id", pCfg.ID), zap.Error(err))
			continue
		}

		if !providerInstance.HasCredential() {
			log.Warn(fmt.Sprintf("%s %s %s",
				cli.WarningSign(),
				cli.Stylize(fmt.Sprintf("%s\t", pCfg.ID), cli.Bold),
				cli.Stylize("No API key configured, requests will report a missing credential", cli.Yellow),
			))
		} else {
			log.Info(fmt.Sprintf("%s %s %s",
				cli.CheckMark(),
				cli.Stylize(fmt.Sprintf("%s\t", pCfg.ID), cli.Bold),
				cli.Stylize(fmt.Sprintf("registered (%s, model %s)", pCfg.Type, modelOrDefault(pCfg.Model)), cli.Green),
			))
		}

		registeredCount++
	}

	if registeredCount == 0 {
		log.Warn("No providers were registered. Every query will be rejected.")
	}

	return registeredCount
}

func modelOrDefault(model string) string {
	if model == "" {
		return "default"
	}
	return model
}
