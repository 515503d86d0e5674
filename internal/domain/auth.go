package domain

// SubjectType differentiates operator and customer tokens.
type SubjectType string

const (
	// SubjectOperator may read metrics and see fault details.
	SubjectOperator SubjectType = "OPERATOR"
	// SubjectCustomer is an end customer; the token subject is the customer id.
	SubjectCustomer SubjectType = "CUSTOMER"
)

// Valid reports whether the subject type is known.
func (s SubjectType) Valid() bool {
	return s == SubjectOperator || s == SubjectCustomer
}
