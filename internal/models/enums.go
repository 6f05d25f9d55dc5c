package models

import "fmt"

// Person is one of the two household members.
type Person string

const (
	PersonFranklin Person = "franklin"
	PersonMichele  Person = "michele"
)

// Persons lists the household members in a stable order.
var Persons = []Person{PersonFranklin, PersonMichele}

// Valid reports whether p is a known household member.
func (p Person) Valid() bool {
	return p == PersonFranklin || p == PersonMichele
}

// Other returns the other household member.
func (p Person) Other() Person {
	if p == PersonFranklin {
		return PersonMichele
	}
	return PersonFranklin
}

// ParsePerson converts a wire value into a Person.
func ParsePerson(s string) (Person, error) {
	p := Person(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown person %q", s)
	}
	return p, nil
}

// Responsibility says who a transaction is attributed to.
type Responsibility string

const (
	ResponsibilityFranklin Responsibility = "franklin"
	ResponsibilityMichele  Responsibility = "michele"
	// ResponsibilityCasal marks a joint transaction of the couple.
	ResponsibilityCasal Responsibility = "casal"
)

// Valid reports whether r is a known responsibility.
func (r Responsibility) Valid() bool {
	switch r {
	case ResponsibilityFranklin, ResponsibilityMichele, ResponsibilityCasal:
		return true
	}
	return false
}

// Person returns the individual member for a non-joint responsibility.
func (r Responsibility) Person() (Person, bool) {
	if r == ResponsibilityCasal {
		return "", false
	}
	p := Person(r)
	return p, p.Valid()
}

// ResponsibilityOf returns the individual responsibility for p.
func ResponsibilityOf(p Person) Responsibility {
	return Responsibility(p)
}

// TransactionType is income or expense.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentMethod is how an expense was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCredit PaymentMethod = "credit"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCredit
}

// Status tracks the settlement state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusToReceive Status = "to_receive"
	StatusReceived  Status = "received"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusToReceive, StatusReceived:
		return true
	}
	return false
}

// DefaultStatus is the initial status for a transaction of type t.
func DefaultStatus(t TransactionType) Status {
	if t == TypeIncome {
		return StatusToReceive
	}
	return StatusPending
}

// IsOpen reports whether a bill in this status still has to be paid.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusOverdue
}
