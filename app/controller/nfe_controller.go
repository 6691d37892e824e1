package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gestao-pesos/finance"
	"gestao-pesos/models"
	"gestao-pesos/repository"
	"gestao-pesos/service"
)

// NotaFiscalController handles HTTP requests for fiscal invoices
type NotaFiscalController struct {
	store        repository.NotaFiscalStoreInterface
	xmlService   service.XMLServiceInterface
	danfeService service.DanfeServiceInterface
	emailService service.EmailServiceInterface
	settings     *models.FiscalSettings
}

// NewNotaFiscalController creates a new NotaFiscalController
func NewNotaFiscalController(
	store repository.NotaFiscalStoreInterface,
	xmlService service.XMLServiceInterface,
	danfeService service.DanfeServiceInterface,
	emailService service.EmailServiceInterface,
	settings *models.FiscalSettings,
) *NotaFiscalController {
	return &NotaFiscalController{
		store:        store,
		xmlService:   xmlService,
		danfeService: danfeService,
		emailService: emailService,
		settings:     settings,
	}
}

// ListNotas handles GET /admin/nfe?status=aguardando
// Example response:
// {
//   "notas": [
//     {
//       "id": 1,
//       "numero_nfe": "483920",
//       "status": "aguardando",
//       "customer_name": "Empresa Exemplo LTDA",
//       "total_amount": 370.00
//     }
//   ]
// }
func (c *NotaFiscalController) ListNotas(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ListNotas: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ ListNotas: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notas := c.store.List()

	// Filter by status query parameter, if present
	status := r.URL.Query().Get("status")
	if status != "" {
		filtered := make([]models.NotaFiscal, 0, len(notas))
		for _, n := range notas {
			if string(n.Status) == status {
				filtered = append(filtered, n)
			}
		}
		notas = filtered
	}

	log.Printf("✅ ListNotas: Successfully fetched %d notas", len(notas))

	response := map[string][]models.NotaFiscal{"notas": notas}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ ListNotas: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// CreateNota handles POST /admin/nfe
// Creates a draft invoice. Derived tax fields and the installment
// schedule are always recomputed server-side.
// Example request:
// POST /admin/nfe
// {
//   "customer_name": "Empresa Exemplo LTDA",
//   "customer_cpf_cnpj": "12345678000199",
//   "payment_method": "boleto_bancario",
//   "sale_date": "2024-01-01",
//   "produtos": [
//     {"descricao": "Peso padrão 2kg M1", "ncm": "90158010", "quantidade": 2, "valor_unitario": 100}
//   ]
// }
func (c *NotaFiscalController) CreateNota(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateNota: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ CreateNota: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var nota models.NotaFiscal
	if err := json.NewDecoder(r.Body).Decode(&nota); err != nil {
		log.Printf("❌ CreateNota: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(nota.CustomerName) == "" {
		log.Printf("❌ CreateNota: customer_name is required")
		http.Error(w, "customer_name is required", http.StatusBadRequest)
		return
	}

	// New invoices always start the lifecycle at rascunho; clients
	// cannot inject a status, number or protocol of their own.
	nota.ID = 0
	nota.Status = models.StatusRascunho
	nota.NumeroNFe = ""
	nota.ChaveAcesso = ""
	nota.Protocolo = ""
	if nota.DataEmissao == "" {
		nota.DataEmissao = time.Now().Format("2006-01-02")
	}

	c.prepareNota(&nota)

	created := c.store.Add(nota)

	log.Printf("✅ CreateNota: Successfully created nota id=%d", created.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		log.Printf("❌ CreateNota: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// GetNota handles GET /admin/nfe/:id
func (c *NotaFiscalController) GetNota(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 GetNota: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ GetNota: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "")
	if !ok {
		return
	}

	nota, found := c.store.Get(notaID)
	if !found {
		log.Printf("❌ GetNota: Nota not found: id=%d", notaID)
		http.Error(w, fmt.Sprintf("nota %d not found", notaID), http.StatusNotFound)
		return
	}

	log.Printf("✅ GetNota: Successfully fetched nota id=%d", notaID)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(nota); err != nil {
		log.Printf("❌ GetNota: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// UpdateNota handles PUT /admin/nfe/:id
// Replaces the invoice record. Invoices in a terminal status
// (autorizada, cancelada) cannot be modified.
func (c *NotaFiscalController) UpdateNota(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateNota: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPut {
		log.Printf("❌ UpdateNota: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "")
	if !ok {
		return
	}

	existing, found := c.store.Get(notaID)
	if !found {
		log.Printf("❌ UpdateNota: Nota not found: id=%d", notaID)
		http.Error(w, fmt.Sprintf("nota %d not found", notaID), http.StatusNotFound)
		return
	}

	if existing.Status.Terminal() {
		log.Printf("❌ UpdateNota: Nota id=%d is %s and cannot be modified", notaID, existing.Status)
		http.Error(w, fmt.Sprintf("nota %d is %s and cannot be modified", notaID, existing.Status), http.StatusBadRequest)
		return
	}

	var nota models.NotaFiscal
	if err := json.NewDecoder(r.Body).Decode(&nota); err != nil {
		log.Printf("❌ UpdateNota: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	// The URL id wins, and the lifecycle fields stay under the store's
	// control.
	nota.ID = notaID
	nota.Status = existing.Status
	nota.NumeroNFe = existing.NumeroNFe
	nota.ChaveAcesso = existing.ChaveAcesso
	nota.Protocolo = existing.Protocolo
	nota.CreatedDate = existing.CreatedDate

	c.prepareNota(&nota)

	if !c.store.Update(nota) {
		log.Printf("❌ UpdateNota: Nota not found: id=%d", notaID)
		http.Error(w, fmt.Sprintf("nota %d not found", notaID), http.StatusNotFound)
		return
	}

	log.Printf("✅ UpdateNota: Successfully updated nota id=%d", notaID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(nota); err != nil {
		log.Printf("❌ UpdateNota: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// IssueNota handles POST /admin/nfe/:id/issue
// Moves a draft to aguardando, assigning its number and access key.
func (c *NotaFiscalController) IssueNota(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 IssueNota: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ IssueNota: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "/issue")
	if !ok {
		return
	}

	nota, err := c.store.Issue(notaID)
	if err != nil {
		log.Printf("❌ IssueNota: Error issuing nota: %v", err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("✅ IssueNota: Successfully issued nota id=%d numero=%s", nota.ID, nota.NumeroNFe)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(nota); err != nil {
		log.Printf("❌ IssueNota: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// CancelNota handles POST /admin/nfe/:id/cancel
func (c *NotaFiscalController) CancelNota(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CancelNota: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ CancelNota: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "/cancel")
	if !ok {
		return
	}

	nota, err := c.store.Cancel(notaID)
	if err != nil {
		log.Printf("❌ CancelNota: Error cancelling nota: %v", err)
		if strings.Contains(err.Error(), "not found") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("✅ CancelNota: Successfully cancelled nota id=%d", nota.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(nota); err != nil {
		log.Printf("❌ CancelNota: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// CheckStatus handles POST /admin/nfe/check-status
// Runs the batch authority check over every invoice aguardando.
// Example response:
// {
//   "authorized": 2
// }
func (c *NotaFiscalController) CheckStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CheckStatus: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ CheckStatus: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	authorized := c.store.CheckAuthority()

	log.Printf("✅ CheckStatus: Authority check authorized %d nota(s)", authorized)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]int{"authorized": authorized}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ CheckStatus: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ExportXML handles GET /admin/nfe/:id/xml
// Serializes the invoice into the fiscal XML document and serves it as
// a download named NFe_<numero>.xml.
func (c *NotaFiscalController) ExportXML(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ExportXML: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ ExportXML: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "/xml")
	if !ok {
		return
	}

	nota, found := c.store.Get(notaID)
	if !found {
		log.Printf("❌ ExportXML: Nota not found: id=%d", notaID)
		http.Error(w, fmt.Sprintf("nota %d not found", notaID), http.StatusNotFound)
		return
	}

	xmlDoc, err := c.xmlService.BuildFromNota(&nota, c.settings)
	if err != nil {
		log.Printf("❌ ExportXML: Error building XML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to build XML: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ ExportXML: Successfully built XML for nota id=%d (%d bytes)", notaID, len(xmlDoc))

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.XMLFileName(&nota)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xmlDoc))
}

// ExportDanfe handles GET /admin/nfe/:id/danfe
// Renders the DANFE PDF and serves it as a download named
// DANFE_NFe_<numero>.pdf. Non-authorized invoices come out watermarked
// SEM VALOR FISCAL.
func (c *NotaFiscalController) ExportDanfe(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ExportDanfe: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodGet {
		log.Printf("❌ ExportDanfe: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "/danfe")
	if !ok {
		return
	}

	nota, found := c.store.Get(notaID)
	if !found {
		log.Printf("❌ ExportDanfe: Nota not found: id=%d", notaID)
		http.Error(w, fmt.Sprintf("nota %d not found", notaID), http.StatusNotFound)
		return
	}

	pdf, err := c.danfeService.Render(r.Context(), &nota)
	if err != nil {
		log.Printf("❌ ExportDanfe: Error rendering DANFE: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render DANFE: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ ExportDanfe: Successfully rendered DANFE for nota id=%d (%d bytes)", notaID, len(pdf))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.DanfeFileName(&nota)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// EmailDanfe handles POST /admin/nfe/:id/email
// Renders the DANFE and the XML and sends both to the given address.
// Example request:
// POST /admin/nfe/1/email
// {
//   "to": "cliente@exemplo.com"
// }
// Example response:
// {
//   "message": "DANFE sent to cliente@exemplo.com"
// }
func (c *NotaFiscalController) EmailDanfe(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 EmailDanfe: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		log.Printf("❌ EmailDanfe: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notaID, ok := c.notaIDFromPath(w, r, "/email")
	if !ok {
		return
	}

	var req models.EmailDanfeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ EmailDanfe: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.To) == "" {
		log.Printf("❌ EmailDanfe: to is required")
		http.Error(w, "to is required", http.StatusBadRequest)
		return
	}

	nota, found := c.store.Get(notaID)
	if !found {
		log.Printf("❌ EmailDanfe: Nota not found: id=%d", notaID)
		http.Error(w, fmt.Sprintf("nota %d not found", notaID), http.StatusNotFound)
		return
	}

	pdf, err := c.danfeService.Render(r.Context(), &nota)
	if err != nil {
		log.Printf("❌ EmailDanfe: Error rendering DANFE: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render DANFE: %v", err), http.StatusInternalServerError)
		return
	}

	xmlDoc, err := c.xmlService.BuildFromNota(&nota, c.settings)
	if err != nil {
		log.Printf("❌ EmailDanfe: Error building XML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to build XML: %v", err), http.StatusInternalServerError)
		return
	}

	msg := service.ComposeDanfeEmail(&nota, req.To, pdf, []byte(xmlDoc))
	if err := c.emailService.Send(r.Context(), msg); err != nil {
		log.Printf("❌ EmailDanfe: Error sending email: %v", err)
		http.Error(w, fmt.Sprintf("Failed to send email: %v", err), http.StatusInternalServerError)
		return
	}

	log.Printf("✅ EmailDanfe: Successfully sent DANFE of nota id=%d to %s", notaID, req.To)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]string{"message": fmt.Sprintf("DANFE sent to %s", req.To)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ EmailDanfe: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// prepareNota recomputes everything the server owns on an incoming
// invoice: the tax aggregates and the installment schedule.
func (c *NotaFiscalController) prepareNota(nota *models.NotaFiscal) {
	finance.ApplyTaxes(nota, c.settings)

	n := len(nota.Installments)
	if n <= 0 {
		n = 1
	}
	nota.Installments = finance.GenerateInstallments(nota.TotalAmount, n, nota.PaymentMethod, nota.SaleDate)
}

// notaIDFromPath extracts the invoice id from the URL path, stripping
// the action suffix when present. Writes the error response itself and
// returns ok=false on malformed paths.
func (c *NotaFiscalController) notaIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (int64, bool) {
	path := strings.TrimPrefix(r.URL.Path, "/admin/nfe/")
	if path == "" {
		http.Error(w, "nota id parameter is required", http.StatusBadRequest)
		return 0, false
	}

	idStr := path
	if suffix != "" {
		idStr = strings.TrimSuffix(path, suffix)
		if idStr == path {
			http.Error(w, "invalid path format", http.StatusBadRequest)
			return 0, false
		}
	}

	if strings.Contains(idStr, "/") {
		http.Error(w, "invalid path format", http.StatusBadRequest)
		return 0, false
	}

	notaID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Printf("❌ %s: Invalid nota id: %s", r.URL.Path, idStr)
		http.Error(w, "invalid nota id parameter", http.StatusBadRequest)
		return 0, false
	}
	return notaID, true
}
