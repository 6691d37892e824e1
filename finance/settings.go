package finance

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gestao-pesos/models"
)

var settingsInstance *models.FiscalSettings

// LoadSettings loads the fiscal settings JSON once per process and
// keeps it as the package singleton. Subsequent calls return the
// already-loaded instance.
func LoadSettings(configPath string) (*models.FiscalSettings, error) {
	if settingsInstance != nil {
		return settingsInstance, nil
	}

	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fiscal config: %w", err)
	}

	var settings models.FiscalSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse fiscal config: %w", err)
	}

	applyDefaults(&settings)
	if err := validateSettings(&settings); err != nil {
		return nil, fmt.Errorf("invalid fiscal config: %w", err)
	}

	settingsInstance = &settings
	log.Printf("✅ FiscalSettings: loaded from %s (regime=%s serie=%s)", configPath, settings.RegimeTributario, settings.SerieNFe)
	return settingsInstance, nil
}

// Settings returns the singleton fiscal settings, or nil if LoadSettings
// has not run yet.
func Settings() *models.FiscalSettings {
	return settingsInstance
}

func applyDefaults(s *models.FiscalSettings) {
	if s.SerieNFe == "" {
		s.SerieNFe = "1"
	}
	if s.ModeloNFe == "" {
		s.ModeloNFe = "55"
	}
	if s.AliquotaICMSPadrao == 0 {
		s.AliquotaICMSPadrao = 18
	}
	if s.AliquotaPIS == 0 {
		s.AliquotaPIS = 0.65
	}
	if s.AliquotaCOFINS == 0 {
		s.AliquotaCOFINS = 3
	}
	if s.CFOPPadrao == "" {
		s.CFOPPadrao = "5102"
	}
	if s.CSOSNPadrao == "" {
		s.CSOSNPadrao = "102"
	}
	if s.OrigemPadrao == "" {
		s.OrigemPadrao = "0"
	}
	if s.RegimeTributario == "" {
		s.RegimeTributario = models.RegimeSimplesNacional
	}
}

func validateSettings(s *models.FiscalSettings) error {
	if s.CNPJEmitente == "" {
		return fmt.Errorf("cnpj_emitente is required")
	}
	if s.RazaoSocial == "" {
		return fmt.Errorf("razao_social is required")
	}
	if s.UF == "" {
		return fmt.Errorf("uf is required")
	}
	return nil
}
