package services

// ServiceContainer holds all service facades the handlers depend on.
type ServiceContainer struct {
	Classifier ClassifierSvc
	Resolver   ResolverSvc
	Normalizer NormalizerSvc
	Posting    PostingSvc
	Balance    BalanceSvc
	Closing    ClosingSvc
	Statements StatementSvc
}
