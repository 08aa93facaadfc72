// Package memstore implementa los repositorios de dominio en memoria para tests:
// mismas reglas de unicidad que el esquema PostgreSQL y transacciones con rollback.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cauamenezes/sistema-timesheet/internal/domain"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/entity"
	"github.com/cauamenezes/sistema-timesheet/internal/domain/repository"
)

type state struct {
	employees map[int64]entity.Employee
	companies map[int64]entity.Company
	banks     map[int64]entity.BankDetail
	entries   map[int64]entity.TimesheetEntry
	seq       map[string]int64
}

func newState() *state {
	return &state{
		employees: map[int64]entity.Employee{},
		companies: map[int64]entity.Company{},
		banks:     map[int64]entity.BankDetail{},
		entries:   map[int64]entity.TimesheetEntry{},
		seq:       map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.banks {
		c.banks[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store base de datos en memoria. El valor cero no es utilizable; usar New.
type Store struct {
	mu sync.Mutex
	st *state

	// FailEmployeeCreate, si no es nil, hace fallar el próximo EmployeeRepository.Create.
	FailEmployeeCreate error
	// FailMarkSubmitted, si no es nil, hace fallar el próximo TimesheetRepository.MarkSubmitted.
	FailMarkSubmitted error
}

// New crea un Store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Employees repositorio de colaboradores fuera de transacción.
func (s *Store) Employees() *Employees { return &Employees{s: s} }

// Companies repositorio de empresas fuera de transacción.
func (s *Store) Companies() *Companies { return &Companies{s: s} }

// Banks repositorio de datos bancarios fuera de transacción.
func (s *Store) Banks() *Banks { return &Banks{s: s} }

// Entries repositorio de lanzamientos fuera de transacción.
func (s *Store) Entries() *Entries { return &Entries{s: s} }

// CompanyCount cantidad de empresas persistidas.
func (s *Store) CompanyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.companies)
}

// BankCount cantidad de datos bancarios persistidos.
func (s *Store) BankCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.banks)
}

// EntryStatus estado actual de un lanzamiento ("" si no existe).
func (s *Store) EntryStatus(id int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.entries[id].Status
}

// RunOnboarding implementa onboarding.TxRunner.
func (s *Store) RunOnboarding(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	employeeRepo repository.EmployeeRepository,
	bankRepo repository.BankDetailRepository,
) error) error {
	return s.run(func() error {
		return fn(&Companies{s: s, inTx: true}, &Employees{s: s, inTx: true}, &Banks{s: s, inTx: true})
	})
}

// RunSubmission implementa timesheet.TxRunner.
func (s *Store) RunSubmission(ctx context.Context, fn func(entryRepo repository.TimesheetRepository) error) error {
	return s.run(func() error {
		return fn(&Entries{s: s, inTx: true})
	})
}

// run serializa la transacción completa y restaura el estado previo si fn falla.
func (s *Store) run(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) do(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// ── Colaboradores ────────────────────────────────────────────────────────────

// Employees implementa repository.EmployeeRepository.
type Employees struct {
	s    *Store
	inTx bool
}

var _ repository.EmployeeRepository = (*Employees)(nil)

func (r *Employees) Create(_ context.Context, e *entity.Employee) error {
	return r.s.do(r.inTx, func(st *state) error {
		if err := r.s.FailEmployeeCreate; err != nil {
			r.s.FailEmployeeCreate = nil
			return err
		}
		for _, other := range st.employees {
			if e.CPF != "" && other.CPF == e.CPF {
				return domain.E(domain.ErrConflict, "CPF já cadastrado")
			}
			if e.Email != "" && other.Email == e.Email {
				return domain.E(domain.ErrConflict, "E-mail já cadastrado")
			}
		}
		if e.CompanyID != nil {
			if _, ok := st.companies[*e.CompanyID]; !ok {
				return domain.E(domain.ErrInvalidInput, "empresa inexistente")
			}
		}
		e.ID = st.next("colaboradores")
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		st.employees[e.ID] = *e
		return nil
	})
}

func (r *Employees) find(match func(entity.Employee) bool) (*entity.Employee, error) {
	var out *entity.Employee
	err := r.s.do(r.inTx, func(st *state) error {
		for _, e := range st.employees {
			if match(e) {
				cp := e
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *Employees) GetByID(_ context.Context, id int64) (*entity.Employee, error) {
	return r.find(func(e entity.Employee) bool { return e.ID == id })
}

func (r *Employees) GetByEmail(_ context.Context, email string) (*entity.Employee, error) {
	return r.find(func(e entity.Employee) bool { return email != "" && e.Email == email })
}

func (r *Employees) GetByCPF(_ context.Context, cpf string) (*entity.Employee, error) {
	return r.find(func(e entity.Employee) bool { return cpf != "" && e.CPF == cpf })
}

func (r *Employees) GetByResetToken(_ context.Context, token string) (*entity.Employee, error) {
	return r.find(func(e entity.Employee) bool { return token != "" && e.ResetToken == token })
}

func (r *Employees) SetResetToken(_ context.Context, id int64, token string, expiresAt time.Time) error {
	return r.s.do(r.inTx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok {
			return domain.ErrNotFound
		}
		exp := expiresAt
		e.ResetToken = token
		e.ResetExpires = &exp
		st.employees[id] = e
		return nil
	})
}

func (r *Employees) UpdatePassword(_ context.Context, id int64, resetToken, passwordHash string) (bool, error) {
	var updated bool
	err := r.s.do(r.inTx, func(st *state) error {
		e, ok := st.employees[id]
		if !ok || resetToken == "" || e.ResetToken != resetToken {
			return nil
		}
		updated = true
		e.PasswordHash = passwordHash
		e.ResetToken = ""
		e.ResetExpires = nil
		st.employees[id] = e
		return nil
	})
	return updated, err
}

func (r *Employees) List(_ context.Context) ([]*entity.Employee, error) {
	var out []*entity.Employee
	err := r.s.do(r.inTx, func(st *state) error {
		for _, e := range st.employees {
			cp := e
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, err
}

// ── Empresas y datos bancarios ───────────────────────────────────────────────

// Companies implementa repository.CompanyRepository.
type Companies struct {
	s    *Store
	inTx bool
}

var _ repository.CompanyRepository = (*Companies)(nil)

func (r *Companies) Create(_ context.Context, c *entity.Company) error {
	return r.s.do(r.inTx, func(st *state) error {
		for _, other := range st.companies {
			if other.CNPJ == c.CNPJ {
				return domain.E(domain.ErrConflict, "CNPJ já cadastrado")
			}
		}
		c.ID = st.next("empresas")
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *Companies) GetByCNPJ(_ context.Context, cnpj string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.do(r.inTx, func(st *state) error {
		for _, c := range st.companies {
			if c.CNPJ == cnpj {
				cp := c
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Banks implementa repository.BankDetailRepository.
type Banks struct {
	s    *Store
	inTx bool
}

var _ repository.BankDetailRepository = (*Banks)(nil)

func (r *Banks) Create(_ context.Context, b *entity.BankDetail) error {
	return r.s.do(r.inTx, func(st *state) error {
		if _, ok := st.employees[b.EmployeeID]; !ok {
			return domain.E(domain.ErrInvalidInput, "colaborador inexistente")
		}
		b.ID = st.next("dados_bancarios")
		st.banks[b.ID] = *b
		return nil
	})
}

// ── Lanzamientos ─────────────────────────────────────────────────────────────

// Entries implementa repository.TimesheetRepository.
type Entries struct {
	s    *Store
	inTx bool
}

var _ repository.TimesheetRepository = (*Entries)(nil)

func (r *Entries) Create(_ context.Context, e *entity.TimesheetEntry) error {
	return r.s.do(r.inTx, func(st *state) error {
		if _, ok := st.employees[e.EmployeeID]; !ok {
			return domain.E(domain.ErrInvalidInput, "colaborador inexistente")
		}
		e.ID = st.next("horas_trabalhadas")
		if e.Status == "" {
			e.Status = entity.EntryStatusDraft
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		st.entries[e.ID] = *e
		return nil
	})
}

func (r *Entries) List(_ context.Context, f repository.TimesheetFilter) ([]*entity.TimesheetEntryView, error) {
	var out []*entity.TimesheetEntryView
	err := r.s.do(r.inTx, func(st *state) error {
		for _, e := range st.entries {
			if f.EmployeeID != 0 && e.EmployeeID != f.EmployeeID {
				continue
			}
			if !inRange(e.Date, f.From, f.To) {
				continue
			}
			if f.Status != "" && e.Status != f.Status {
				continue
			}
			emp := st.employees[e.EmployeeID]
			out = append(out, &entity.TimesheetEntryView{
				TimesheetEntry: e,
				EmployeeName:   emp.FullName,
				EmployeeEmail:  emp.Email,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *Entries) ListDraftForUpdate(_ context.Context, employeeID int64, from, to time.Time) ([]*entity.TimesheetEntry, error) {
	var out []*entity.TimesheetEntry
	err := r.s.do(r.inTx, func(st *state) error {
		for _, e := range st.entries {
			if e.EmployeeID == employeeID && e.Status == entity.EntryStatusDraft && inRange(e.Date, &from, &to) {
				cp := e
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *Entries) MarkSubmitted(_ context.Context, ids []int64) (int64, error) {
	var n int64
	err := r.s.do(r.inTx, func(st *state) error {
		if err := r.s.FailMarkSubmitted; err != nil {
			r.s.FailMarkSubmitted = nil
			return err
		}
		for _, id := range ids {
			e, ok := st.entries[id]
			if !ok || e.Status != entity.EntryStatusDraft {
				continue
			}
			e.Status = entity.EntryStatusSubmitted
			st.entries[id] = e
			n++
		}
		return nil
	})
	return n, err
}

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}
