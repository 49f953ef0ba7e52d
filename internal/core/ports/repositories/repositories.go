package repositories

// RepositoryProvider aggregates the repository implementations handed to the
// service container at wiring time.
type RepositoryProvider struct {
	EntryRepo      EntryRepositoryWithTx
	PartyRepo      PartyRepositoryFacade
	SettlementRepo SettlementRepositoryWithTx
	UserRepo       UserRepositoryFacade
}
