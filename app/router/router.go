package router

import (
	"net/http"
	"strings"

	"gestao-pesos/app/controller"
)

type Controllers struct {
	Order      *controller.OrderController
	NotaFiscal *controller.NotaFiscalController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Orders routes
	http.HandleFunc("/admin/pedidos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Order.CreateOrder(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Order.ListOrders(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	http.HandleFunc("/admin/pedidos/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/pedidos/")

		// Route to specific actions first
		if strings.HasSuffix(path, "/status") {
			controllers.Order.UpdateOrderStatus(w, r)
			return
		}

		// Otherwise, treat as GET /admin/pedidos/:id
		if r.Method == http.MethodGet {
			controllers.Order.GetOrder(w, r)
			return
		}

		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Fiscal invoice routes
	http.HandleFunc("/admin/nfe", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.NotaFiscal.CreateNota(w, r)
		} else if r.Method == http.MethodGet {
			controllers.NotaFiscal.ListNotas(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Batch authority check (must be before the generic /:id route)
	http.HandleFunc("/admin/nfe/check-status", controllers.NotaFiscal.CheckStatus)

	http.HandleFunc("/admin/nfe/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/nfe/")

		// Route to specific actions first
		if strings.HasSuffix(path, "/issue") {
			controllers.NotaFiscal.IssueNota(w, r)
			return
		}
		if strings.HasSuffix(path, "/cancel") {
			controllers.NotaFiscal.CancelNota(w, r)
			return
		}
		if strings.HasSuffix(path, "/xml") {
			controllers.NotaFiscal.ExportXML(w, r)
			return
		}
		if strings.HasSuffix(path, "/danfe") {
			controllers.NotaFiscal.ExportDanfe(w, r)
			return
		}
		if strings.HasSuffix(path, "/email") {
			controllers.NotaFiscal.EmailDanfe(w, r)
			return
		}

		// Handle PUT /admin/nfe/:id (update entire invoice)
		if r.Method == http.MethodPut && !strings.Contains(path, "/") {
			controllers.NotaFiscal.UpdateNota(w, r)
			return
		}

		// Otherwise, treat as GET /admin/nfe/:id
		if r.Method == http.MethodGet {
			controllers.NotaFiscal.GetNota(w, r)
			return
		}

		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}
