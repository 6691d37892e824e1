package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gestao-pesos/models"
	"gestao-pesos/repository"
	"gestao-pesos/service"
)

type fakeDanfeService struct{}

func (f *fakeDanfeService) Render(_ context.Context, _ *models.NotaFiscal) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type recordingEmailService struct {
	sent []*service.EmailMessage
}

func (r *recordingEmailService) Send(_ context.Context, msg *service.EmailMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func controllerSettings() *models.FiscalSettings {
	return &models.FiscalSettings{
		RegimeTributario:   models.RegimeSimplesNacional,
		CNPJEmitente:       "04123456000188",
		RazaoSocial:        "Pesos Padrão Indústria e Comércio LTDA",
		UF:                 "SP",
		SerieNFe:           "1",
		ModeloNFe:          "55",
		CSOSNPadrao:        "102",
		CFOPPadrao:         "5102",
		OrigemPadrao:       "0",
		AliquotaICMSPadrao: 18,
		AliquotaPIS:        0.65,
		AliquotaCOFINS:     3,
	}
}

func newTestController() (*NotaFiscalController, *recordingEmailService) {
	email := &recordingEmailService{}
	c := NewNotaFiscalController(
		repository.NewNotaFiscalStore(),
		service.NewXMLService(),
		&fakeDanfeService{},
		email,
		controllerSettings(),
	)
	return c, email
}

func createDraft(t *testing.T, c *NotaFiscalController) models.NotaFiscal {
	t.Helper()
	body := `{
		"customer_name": "Empresa Exemplo LTDA",
		"customer_cpf_cnpj": "12345678000199",
		"payment_method": "boleto_bancario",
		"sale_date": "2024-01-01",
		"produtos": [
			{"descricao": "Peso padrão 2kg M1", "ncm": "90158010", "quantidade": 2, "valor_unitario": 100}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/admin/nfe", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.CreateNota(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var nota models.NotaFiscal
	if err := json.NewDecoder(rec.Body).Decode(&nota); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return nota
}

func TestCreateNotaComputesDerivedFields(t *testing.T) {
	c, _ := newTestController()

	nota := createDraft(t, c)

	if nota.Status != models.StatusRascunho {
		t.Errorf("status = %s, want rascunho", nota.Status)
	}
	if nota.ProdutosTotal != 200 {
		t.Errorf("produtos_total = %v, want 200", nota.ProdutosTotal)
	}
	if nota.ValorICMS != 36 {
		t.Errorf("valor_icms = %v, want 36", nota.ValorICMS)
	}
	if nota.TotalAmount != 200 {
		t.Errorf("total_amount = %v, want 200", nota.TotalAmount)
	}
	if len(nota.Installments) != 1 {
		t.Errorf("len(installments) = %d, want 1", len(nota.Installments))
	}
}

func TestCreateNotaRequiresCustomerName(t *testing.T) {
	c, _ := newTestController()

	req := httptest.NewRequest(http.MethodPost, "/admin/nfe", strings.NewReader(`{"produtos": []}`))
	rec := httptest.NewRecorder()
	c.CreateNota(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNotaLifecycleOverHTTP(t *testing.T) {
	c, _ := newTestController()
	nota := createDraft(t, c)

	// Issue the draft.
	req := httptest.NewRequest(http.MethodPost, "/admin/nfe/1/issue", nil)
	rec := httptest.NewRecorder()
	c.IssueNota(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("issue status = %d body = %s", rec.Code, rec.Body.String())
	}
	var issued models.NotaFiscal
	if err := json.NewDecoder(rec.Body).Decode(&issued); err != nil {
		t.Fatal(err)
	}
	if issued.Status != models.StatusAguardando {
		t.Errorf("status after issue = %s, want aguardando", issued.Status)
	}

	// Batch authority check moves it to autorizada.
	req = httptest.NewRequest(http.MethodPost, "/admin/nfe/check-status", nil)
	rec = httptest.NewRecorder()
	c.CheckStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("check-status status = %d", rec.Code)
	}
	var result map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result["authorized"] != 1 {
		t.Errorf("authorized = %d, want 1", result["authorized"])
	}

	// An authorized invoice rejects updates.
	update, _ := json.Marshal(nota)
	req = httptest.NewRequest(http.MethodPut, "/admin/nfe/1", bytes.NewReader(update))
	rec = httptest.NewRecorder()
	c.UpdateNota(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("update of authorized nota status = %d, want 400", rec.Code)
	}

	// And cannot be cancelled.
	req = httptest.NewRequest(http.MethodPost, "/admin/nfe/1/cancel", nil)
	rec = httptest.NewRecorder()
	c.CancelNota(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("cancel of authorized nota status = %d, want 400", rec.Code)
	}
}

func TestListNotasStatusFilter(t *testing.T) {
	c, _ := newTestController()
	createDraft(t, c)
	createDraft(t, c)

	req := httptest.NewRequest(http.MethodPost, "/admin/nfe/2/issue", nil)
	c.IssueNota(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/admin/nfe?status=aguardando", nil)
	rec := httptest.NewRecorder()
	c.ListNotas(rec, req)

	var response map[string][]models.NotaFiscal
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatal(err)
	}
	notas := response["notas"]
	if len(notas) != 1 {
		t.Fatalf("filtered len = %d, want 1", len(notas))
	}
	if notas[0].ID != 2 {
		t.Errorf("filtered id = %d, want 2", notas[0].ID)
	}
}

func TestExportXMLDownload(t *testing.T) {
	c, _ := newTestController()
	createDraft(t, c)
	c.IssueNota(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/nfe/1/issue", nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/nfe/1/xml", nil)
	rec := httptest.NewRecorder()
	c.ExportXML(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/xml" {
		t.Errorf("content-type = %q", got)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "NFe_") || !strings.Contains(disposition, ".xml") {
		t.Errorf("content-disposition = %q", disposition)
	}
	if !strings.Contains(rec.Body.String(), "<nfeProc") {
		t.Error("body is not an nfeProc document")
	}
}

func TestEmailDanfe(t *testing.T) {
	c, email := newTestController()
	createDraft(t, c)

	body := `{"to": "cliente@exemplo.com"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/nfe/1/email", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.EmailDanfe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if len(email.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(email.sent))
	}
	msg := email.sent[0]
	if msg.To != "cliente@exemplo.com" {
		t.Errorf("to = %q", msg.To)
	}
	if len(msg.Attachments) != 2 {
		t.Errorf("attachments = %d, want 2", len(msg.Attachments))
	}
}

func TestEmailDanfeRequiresRecipient(t *testing.T) {
	c, email := newTestController()
	createDraft(t, c)

	req := httptest.NewRequest(http.MethodPost, "/admin/nfe/1/email", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c.EmailDanfe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(email.sent) != 0 {
		t.Errorf("sent = %d messages, want 0", len(email.sent))
	}
}

func TestNotaNotFound(t *testing.T) {
	c, _ := newTestController()

	req := httptest.NewRequest(http.MethodGet, "/admin/nfe/99", nil)
	rec := httptest.NewRecorder()
	c.GetNota(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
