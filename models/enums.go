package models

type UserType string

const (
	UserTypeCustomer UserType = "Customer"
	UserTypeCompany  UserType = "Company"
)

func (t UserType) IsValid() bool {
	return t == UserTypeCustomer || t == UserTypeCompany
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "Cash"
	PaymentMethodBank PaymentMethod = "Bank"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodBank
}

type AccountRole string

const (
	AccountRoleAdmin AccountRole = "Admin"
	AccountRoleStaff AccountRole = "Staff"
)
