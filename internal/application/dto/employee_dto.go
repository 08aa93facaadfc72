package dto

import "time"

// RegisterEmployeeRequest formulario de alta de colaborador: datos personales,
// empresa (deduplicada por CNPJ) y datos bancarios opcionales.
type RegisterEmployeeRequest struct {
	Role        string `json:"tipo_perfil"`
	FullName    string `json:"nome_completo"`
	CPF         string `json:"cpf"`
	RG          string `json:"rg"`
	BirthDate   string `json:"data_nascimento"` // YYYY-MM-DD
	Sex         string `json:"sexo"`
	Email       string `json:"email"`
	Mobile      string `json:"celular"`
	CEP         string `json:"cep"`
	Street      string `json:"rua"`
	Number      string `json:"numero"`
	Complement  string `json:"complemento"`
	District    string `json:"bairro"`
	City        string `json:"cidade"`
	State       string `json:"estado"`
	Password    string `json:"senha"`

	// Empresa
	TradeName             string `json:"nome_fantasia"`
	CNPJ                  string `json:"cnpj"`
	StateRegistration     string `json:"inscricao_estadual"`
	MunicipalRegistration string `json:"inscricao_municipal"`
	TaxRegime             string `json:"regime_tributario"`
	CompanyCEP            string `json:"cep_empresa"`
	CompanyStreet         string `json:"logradouro_empresa"`
	CompanyNumber         string `json:"numero_empresa"`
	CompanyComplement     string `json:"complemento_empresa"`
	CompanyDistrict       string `json:"bairro_empresa"`
	CompanyCity           string `json:"cidade_empresa"`
	CompanyState          string `json:"estado_empresa"`
	CompanyCountry        string `json:"pais_empresa"`
	CompanyPhone          string `json:"telefone_fixo_empresa"`
	CompanyMobile         string `json:"telefone_celular_empresa"`
	CompanyEmail          string `json:"email_corporativo_empresa"`

	// Datos bancarios (se guardan solo si llegan los tres)
	Agency  string `json:"agencia"`
	Account string `json:"conta"`
	PixKey  string `json:"chave_pix"`
}

// EmployeeListItem fila del listado de colaboradores (sin datos sensibles).
type EmployeeListItem struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"nome_completo"`
	Email     string    `json:"email"`
	Role      string    `json:"tipo_perfil"`
	CreatedAt time.Time `json:"data_criacao"`
}
