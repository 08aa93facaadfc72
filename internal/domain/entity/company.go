package entity

import "time"

// Company representa una empresa (tabla empresas), deduplicada por CNPJ.
type Company struct {
	ID                    int64
	TradeName             string // nome_fantasia
	CNPJ                  string
	StateRegistration     string // inscricao_estadual
	MunicipalRegistration string // inscricao_municipal
	TaxRegime             string // regime_tributario
	Address               Address
	Phone                 string
	Mobile                string
	Email                 string
	CreatedAt             time.Time
}

// BankDetail datos bancarios de un colaborador (tabla dados_bancarios).
type BankDetail struct {
	ID         int64
	EmployeeID int64
	Agency     string
	Account    string
	PixKey     string
	Status     string
}
