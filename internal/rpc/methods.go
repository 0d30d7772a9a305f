package rpc

// registerAllMethods registers every RPC method.
// This function is called by NewServer to set up the complete method registry
func (s *Server) registerAllMethods() {
	// Server Information Methods
	s.registry.Register("server_info", &ServerInfoMethod{})
	s.registry.Register("ping", &PingMethod{})

	// Collection offer book
	s.registry.Register("collection_offer", &CollectionOfferMethod{})
	s.registry.Register("collection_book", &CollectionBookMethod{})
	s.registry.Register("collection_extremes", &CollectionExtremesMethod{})
	s.registry.Register("finders_fee", &FindersFeeMethod{})
	s.registry.Register("finders_fee_override", &FindersFeeOverrideMethod{})
	s.registry.Register("offer_history", &OfferHistoryMethod{})
	s.registry.Register("events", &EventsMethod{})

	// Assets
	s.registry.Register("account_balance", &AccountBalanceMethod{})
	s.registry.Register("token_owner", &TokenOwnerMethod{})

	// Transaction Methods
	s.registry.Register("submit", &SubmitMethod{})
	s.registry.Register("wallet_propose", &WalletProposeMethod{})

	// Admin Methods (require admin role)
	s.registry.Register("sign", &SignMethod{})
}
