package repository

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gestao-pesos/models"
)

// NotaFiscalStore holds the full collection of fiscal invoices in
// memory and enforces the status transitions. It is the only stateful
// component of the fiscal core; a single mutex gives it single-writer
// semantics so Update and the batch authority check never interleave.
type NotaFiscalStore struct {
	mu     sync.Mutex
	notas  []models.NotaFiscal
	nextID int64
}

// NewNotaFiscalStore creates an empty store.
func NewNotaFiscalStore() *NotaFiscalStore {
	return &NotaFiscalStore{nextID: 1}
}

// Ensure NotaFiscalStore implements NotaFiscalStoreInterface
var _ NotaFiscalStoreInterface = (*NotaFiscalStore)(nil)

// List returns a copy of the collection in insertion order.
func (s *NotaFiscalStore) List() []models.NotaFiscal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.NotaFiscal, len(s.notas))
	copy(out, s.notas)
	return out
}

// Get returns the invoice with the given id.
func (s *NotaFiscalStore) Get(id int64) (models.NotaFiscal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notas {
		if n.ID == id {
			return n, true
		}
	}
	return models.NotaFiscal{}, false
}

// Add appends the invoice to the collection. A zero id gets the next
// sequential id; a blank status starts the lifecycle at rascunho.
func (s *NotaFiscalStore) Add(nota models.NotaFiscal) models.NotaFiscal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nota.ID == 0 {
		nota.ID = s.nextID
	}
	if nota.ID >= s.nextID {
		s.nextID = nota.ID + 1
	}
	if nota.Status == "" {
		nota.Status = models.StatusRascunho
	}
	if nota.CreatedDate == "" {
		nota.CreatedDate = time.Now().Format(time.RFC3339)
	}
	s.notas = append(s.notas, nota)
	log.Printf("✓ NotaFiscalStore: added nota id=%d status=%s", nota.ID, nota.Status)
	return nota
}

// Update replaces the record matched by id, preserving insertion order
// for all other records. Unknown ids are treated as not-found.
func (s *NotaFiscalStore) Update(nota models.NotaFiscal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notas {
		if n.ID == nota.ID {
			s.notas[i] = nota
			return true
		}
	}
	log.Printf("⚠️ NotaFiscalStore: update for unknown id=%d ignored", nota.ID)
	return false
}

// Issue moves a draft to aguardando, assigning the NF-e number when
// blank and deriving the access key from the issuer settings.
func (s *NotaFiscalStore) Issue(id int64) (models.NotaFiscal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notas {
		if n.ID != id {
			continue
		}
		if n.Status != models.StatusRascunho {
			return models.NotaFiscal{}, fmt.Errorf("nota %d is %s, only drafts can be issued", id, n.Status)
		}
		if n.NumeroNFe == "" {
			// Same scheme as the order forms: last 6 digits of the
			// millisecond clock.
			ms := fmt.Sprintf("%d", time.Now().UnixMilli())
			n.NumeroNFe = ms[len(ms)-6:]
		}
		if n.ChaveAcesso == "" {
			n.ChaveAcesso = buildChaveAcesso(&n)
		}
		n.Status = models.StatusAguardando
		s.notas[i] = n
		log.Printf("✓ NotaFiscalStore: issued nota id=%d numero=%s", n.ID, n.NumeroNFe)
		return n, nil
	}
	return models.NotaFiscal{}, fmt.Errorf("nota %d not found", id)
}

// Cancel marks the invoice cancelada. Terminal invoices (autorizada,
// cancelada) cannot be cancelled.
func (s *NotaFiscalStore) Cancel(id int64) (models.NotaFiscal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notas {
		if n.ID != id {
			continue
		}
		if n.Status.Terminal() {
			return models.NotaFiscal{}, fmt.Errorf("nota %d is %s and cannot be cancelled", id, n.Status)
		}
		n.Status = models.StatusCancelada
		s.notas[i] = n
		log.Printf("✓ NotaFiscalStore: cancelled nota id=%d", n.ID)
		return n, nil
	}
	return models.NotaFiscal{}, fmt.Errorf("nota %d not found", id)
}

// CheckAuthority runs the authority status check: every invoice
// currently aguardando becomes autorizada and receives its protocol
// number. Invoices in any other status are untouched, which makes the
// operation idempotent. Returns how many invoices were authorized.
func (s *NotaFiscalStore) CheckAuthority() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	authorized := 0
	for i, n := range s.notas {
		if n.Status != models.StatusAguardando {
			continue
		}
		n.Status = models.StatusAutorizada
		if n.Protocolo == "" {
			n.Protocolo = fmt.Sprintf("135%d", time.Now().UnixNano()/1000)
		}
		s.notas[i] = n
		authorized++
	}
	if authorized > 0 {
		log.Printf("✓ NotaFiscalStore: authority check authorized %d nota(s)", authorized)
	}
	return authorized
}

// buildChaveAcesso assembles the 44-digit access key: UF code, emission
// year/month, issuer CNPJ, model, series, number, emission type, a
// numeric code and the mod-11 check digit.
func buildChaveAcesso(n *models.NotaFiscal) string {
	emitted, err := time.Parse("2006-01-02", n.DataEmissao)
	if err != nil {
		emitted = time.Now()
	}

	cuf := digitsOnly(defaultIfEmpty(codigoUFFromNota(n), "35"))
	cnpj := padDigits(digitsOnly(n.SellerCNPJ), 14)
	serie := padDigits(digitsOnly(defaultIfEmpty(n.Serie, "1")), 3)
	numero := padDigits(digitsOnly(n.NumeroNFe), 9)
	codigo := fmt.Sprintf("%08d", emitted.UnixMilli()%100000000)

	key := cuf + emitted.Format("0601") + cnpj + "55" + serie + numero + "1" + codigo
	return key + chaveCheckDigit(key)
}

// chaveCheckDigit computes the mod-11 verification digit over the
// first 43 digits of the access key.
func chaveCheckDigit(key string) string {
	weights := []int{2, 3, 4, 5, 6, 7, 8, 9}
	sum := 0
	w := 0
	for i := len(key) - 1; i >= 0; i-- {
		sum += int(key[i]-'0') * weights[w%len(weights)]
		w++
	}
	dv := 11 - sum%11
	if dv >= 10 {
		dv = 0
	}
	return fmt.Sprintf("%d", dv)
}

func codigoUFFromNota(n *models.NotaFiscal) string {
	// The issuer settings carry the IBGE UF code; the nota only has
	// the two-letter UF, so map the common case and default to SP.
	codes := map[string]string{
		"SP": "35", "RJ": "33", "MG": "31", "RS": "43", "PR": "41",
		"SC": "42", "BA": "29", "PE": "26", "CE": "23", "GO": "52",
		"DF": "53", "ES": "32",
	}
	return codes[strings.ToUpper(n.SellerUF)]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// padDigits left-pads with zeros to width, truncating from the left
// when the value is longer.
func padDigits(s string, width int) string {
	if len(s) > width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}
