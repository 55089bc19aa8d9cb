package services

// ServiceContainer holds instances of all the application services. It is the
// single entry point the handlers are wired against.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Journal    JournalSvcFacade
	Posting    PostingSvcFacade
	Payroll    PayrollSvcFacade
	CostCenter CostCenterSvcFacade
	User       UserSvcFacade
	Token      TokenSvcFacade
}
