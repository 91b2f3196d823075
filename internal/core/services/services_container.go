package services

import (
	portsprov "github.com/yalapay/yala_backend/internal/core/ports/providers"
	portsrepo "github.com/yalapay/yala_backend/internal/core/ports/repositories"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	primaryProvider, standbyProvider portsprov.RateProvider,
	notifier portssvc.NotifierSvc,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Notifier = notifier
	container.Exchange = NewExchangeService(primaryProvider, standbyProvider)
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, container.User, notifier)
	container.Account = NewAccountService(repos.AccountRepo, repos.TransactionRepo, repos.CurrencyRepo, repos.UserRepo, notifier)
	container.Transfer = NewTransferService(repos.AccountRepo, repos.TransactionRepo, repos.UserRepo, container.Exchange, notifier)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.UserSvcFacade     = (*userService)(nil)
	_ portssvc.AuthSvcFacade     = (*authService)(nil)
	_ portssvc.CurrencySvcFacade = (*currencyService)(nil)
	_ portssvc.AccountSvcFacade  = (*accountService)(nil)
	_ portssvc.TransferSvcFacade = (*transferService)(nil)
	_ portssvc.ExchangeSvcFacade = (*exchangeService)(nil)
)
