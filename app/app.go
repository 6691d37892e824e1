package app

import (
	"fmt"
	"log"
	"os"

	"gestao-pesos/app/controller"
	"gestao-pesos/app/router"
	"gestao-pesos/db"
	"gestao-pesos/finance"
	"gestao-pesos/repository"
	"gestao-pesos/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Load the issuer's fiscal settings
	configPath := os.Getenv("FISCAL_CONFIG")
	if configPath == "" {
		configPath = "config/fiscal.json"
	}
	settings, err := finance.LoadSettings(configPath)
	if err != nil {
		return err
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository()
	notaStore := repository.NewNotaFiscalStore()

	// Initialize services
	xmlService := service.NewXMLService()

	templatePath := os.Getenv("DANFE_TEMPLATE")
	if templatePath == "" {
		templatePath = "templates/danfe.html"
	}
	danfeService := service.NewDanfeService(templatePath, settings, nil)

	// Gmail delivery is optional; without credentials the sender only
	// logs the composed message.
	var emailService service.EmailServiceInterface
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsPath != "" {
		from := os.Getenv("EMAIL_FROM")
		gmailService, err := service.NewGmailEmailService(credentialsPath, from)
		if err != nil {
			return err
		}
		emailService = gmailService
	} else {
		log.Printf("⚠️ Initialize: GOOGLE_APPLICATION_CREDENTIALS not set, email delivery is simulated")
		emailService = service.NewLogEmailService()
	}

	// Create controllers
	controllers := &router.Controllers{
		Order:      controller.NewOrderController(orderRepo),
		NotaFiscal: controller.NewNotaFiscalController(notaStore, xmlService, danfeService, emailService, settings),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
