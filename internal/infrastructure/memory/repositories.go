package memory

// Repositories agrupa todos los repositorios en memoria sobre un mismo Store.
type Repositories struct {
	Store        *Store
	Users        *UserRepository
	Addresses    *AddressRepository
	Carts        *CartRepository
	Categories   *CategoryRepository
	Products     *ProductRepository
	Promotions   *PromotionRepository
	Orders       *OrderRepository
	Outbox       *OutboxRepository
	Analytics    *AnalyticsRepository
	BankAccounts *BankAccountRepository
	Tx           *TxRunner
}

// New crea un Store vacío y todos sus repositorios.
func New() *Repositories {
	s := NewStore()
	return &Repositories{
		Store:        s,
		Users:        NewUserRepository(s),
		Addresses:    NewAddressRepository(s),
		Carts:        NewCartRepository(s),
		Categories:   NewCategoryRepository(s),
		Products:     NewProductRepository(s),
		Promotions:   NewPromotionRepository(s),
		Orders:       NewOrderRepository(s),
		Outbox:       NewOutboxRepository(s),
		Analytics:    NewAnalyticsRepository(s),
		BankAccounts: NewBankAccountRepository(s),
		Tx:           NewTxRunner(s),
	}
}
