package domain

type Role string

const (
	// Dealer staff may inspect and run credit checks on any lease.
	RoleDealer Role = "dealer"
	// Customer is the default role; customers only see their own leases.
	RoleCustomer Role = "customer"
)

func IsValidRole(r string) bool {
	return r == string(RoleDealer) || r == string(RoleCustomer)
}
