package bootstrap

import (
	"deliverydesk/internal/bootstrap/config"
	"deliverydesk/internal/domain/exception"
)

// App is what the commands need besides the exception service itself.
type App struct {
	Config  config.Config
	Catalog exception.Catalog
}
