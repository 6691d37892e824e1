package repository

import (
	"strings"
	"testing"

	"gestao-pesos/models"
)

func draftNota() models.NotaFiscal {
	return models.NotaFiscal{
		CustomerName:    "Empresa Exemplo LTDA",
		CustomerCpfCnpj: "12345678000199",
		SellerCNPJ:      "04123456000188",
		SellerUF:        "SP",
		Serie:           "1",
		DataEmissao:     "2024-01-01",
		Produtos: []models.ProdutoNFe{
			{Descricao: "Peso padrão 2kg M1", Quantidade: 2, ValorUnitario: 100},
		},
	}
}

func TestStoreAddAssignsDefaults(t *testing.T) {
	store := NewNotaFiscalStore()

	nota := store.Add(draftNota())

	if nota.ID != 1 {
		t.Errorf("id = %d, want 1", nota.ID)
	}
	if nota.Status != models.StatusRascunho {
		t.Errorf("status = %s, want rascunho", nota.Status)
	}
	if nota.CreatedDate == "" {
		t.Error("created_date not assigned")
	}

	second := store.Add(draftNota())
	if second.ID != 2 {
		t.Errorf("second id = %d, want 2", second.ID)
	}
}

func TestStoreListPreservesInsertionOrder(t *testing.T) {
	store := NewNotaFiscalStore()
	first := store.Add(draftNota())
	second := store.Add(draftNota())
	third := store.Add(draftNota())

	// Updating a middle record must not move it.
	second.Observations = "updated"
	if !store.Update(second) {
		t.Fatal("update of existing nota failed")
	}

	notas := store.List()
	if len(notas) != 3 {
		t.Fatalf("len(notas) = %d, want 3", len(notas))
	}
	wantIDs := []int64{first.ID, second.ID, third.ID}
	for i, n := range notas {
		if n.ID != wantIDs[i] {
			t.Errorf("position %d: id = %d, want %d", i, n.ID, wantIDs[i])
		}
	}
	if notas[1].Observations != "updated" {
		t.Errorf("update not applied: %+v", notas[1])
	}
}

func TestStoreUpdateUnknownIDIsNotFound(t *testing.T) {
	store := NewNotaFiscalStore()
	store.Add(draftNota())

	ghost := draftNota()
	ghost.ID = 99
	if store.Update(ghost) {
		t.Error("update of unknown id reported success")
	}
	if len(store.List()) != 1 {
		t.Errorf("unknown-id update changed the collection size")
	}
}

func TestStoreIssue(t *testing.T) {
	store := NewNotaFiscalStore()
	created := store.Add(draftNota())

	issued, err := store.Issue(created.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if issued.Status != models.StatusAguardando {
		t.Errorf("status = %s, want aguardando", issued.Status)
	}
	if len(issued.NumeroNFe) != 6 {
		t.Errorf("numero_nfe = %q, want 6 digits", issued.NumeroNFe)
	}
	if len(issued.ChaveAcesso) != 44 {
		t.Errorf("chave_acesso = %q (%d chars), want 44 digits", issued.ChaveAcesso, len(issued.ChaveAcesso))
	}
	for _, r := range issued.ChaveAcesso {
		if r < '0' || r > '9' {
			t.Errorf("chave_acesso contains non-digit: %q", issued.ChaveAcesso)
			break
		}
	}
	if !strings.HasPrefix(issued.ChaveAcesso, "35") {
		t.Errorf("chave_acesso = %q, want SP UF code prefix 35", issued.ChaveAcesso)
	}

	// Only drafts can be issued.
	if _, err := store.Issue(created.ID); err == nil {
		t.Error("issuing a non-draft succeeded")
	}
}

func TestStoreIssueNotFound(t *testing.T) {
	store := NewNotaFiscalStore()
	if _, err := store.Issue(42); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestStoreCheckAuthority(t *testing.T) {
	store := NewNotaFiscalStore()

	// One draft, two issued, one cancelled.
	store.Add(draftNota())
	a := store.Add(draftNota())
	b := store.Add(draftNota())
	c := store.Add(draftNota())
	if _, err := store.Issue(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Issue(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Cancel(c.ID); err != nil {
		t.Fatal(err)
	}

	if got := store.CheckAuthority(); got != 2 {
		t.Fatalf("authorized = %d, want 2", got)
	}

	for _, n := range store.List() {
		switch n.ID {
		case a.ID, b.ID:
			if n.Status != models.StatusAutorizada {
				t.Errorf("nota %d: status = %s, want autorizada", n.ID, n.Status)
			}
			if n.Protocolo == "" {
				t.Errorf("nota %d: protocolo not stamped", n.ID)
			}
			if !strings.HasPrefix(n.Protocolo, "135") {
				t.Errorf("nota %d: protocolo = %q, want 135 prefix", n.ID, n.Protocolo)
			}
		case c.ID:
			if n.Status != models.StatusCancelada {
				t.Errorf("nota %d: status = %s, want cancelada", n.ID, n.Status)
			}
		default:
			if n.Status != models.StatusRascunho {
				t.Errorf("nota %d: status = %s, want rascunho", n.ID, n.Status)
			}
		}
	}

	// Second run finds nothing aguardando.
	if got := store.CheckAuthority(); got != 0 {
		t.Errorf("second check authorized = %d, want 0", got)
	}
}

func TestStoreCancel(t *testing.T) {
	store := NewNotaFiscalStore()

	draft := store.Add(draftNota())
	cancelled, err := store.Cancel(draft.ID)
	if err != nil {
		t.Fatalf("cancel of draft failed: %v", err)
	}
	if cancelled.Status != models.StatusCancelada {
		t.Errorf("status = %s, want cancelada", cancelled.Status)
	}

	// Cancelled is terminal.
	if _, err := store.Cancel(draft.ID); err == nil {
		t.Error("cancelling a cancelled nota succeeded")
	}

	// Authorized is terminal too.
	issued := store.Add(draftNota())
	if _, err := store.Issue(issued.ID); err != nil {
		t.Fatal(err)
	}
	store.CheckAuthority()
	if _, err := store.Cancel(issued.ID); err == nil {
		t.Error("cancelling an authorized nota succeeded")
	}

	// Aguardando is not terminal.
	waiting := store.Add(draftNota())
	if _, err := store.Issue(waiting.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Cancel(waiting.ID); err != nil {
		t.Errorf("cancel of aguardando failed: %v", err)
	}
}

func TestStoreGet(t *testing.T) {
	store := NewNotaFiscalStore()
	created := store.Add(draftNota())

	got, found := store.Get(created.ID)
	if !found {
		t.Fatal("existing nota not found")
	}
	if got.ID != created.ID {
		t.Errorf("id = %d, want %d", got.ID, created.ID)
	}

	if _, found := store.Get(99); found {
		t.Error("unknown id reported as found")
	}
}

func TestChaveCheckDigit(t *testing.T) {
	// The DV must make the full key validate under the same weights.
	key := "3524010412345600018855001000000151000000010"
	dv := chaveCheckDigit(key)
	if len(dv) != 1 || dv[0] < '0' || dv[0] > '9' {
		t.Fatalf("dv = %q, want single digit", dv)
	}
}
