package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Taboada40/PinoyHiratage/internal/listview"
	"github.com/Taboada40/PinoyHiratage/internal/models"
	"github.com/gorilla/mux"
)

type listPage struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	Filtered   int         `json:"filtered"`
	Total      int         `json:"total"`
}

// AdminOrdersHandler handles GET /api/v1/admin/orders
func (a *App) AdminOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderService.AdminOrders(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, listPage{
			Items: []models.Order{}, Page: 1, TotalPages: 0,
		})
		return
	}

	view := listview.New(listview.UsersPageSize, func(o models.Order) []string {
		return []string{strconv.FormatInt(o.ID, 10), o.CustomerName}
	}).WithCategoryField(func(o models.Order) string {
		return o.Status
	}).WithDateField(func(o models.Order) string {
		return o.CreatedAt
	})

	view.SetItems(orders)
	view.SetSearch(r.URL.Query().Get("search"))
	view.SetCategory(r.URL.Query().Get("status"))
	if date := r.URL.Query().Get("date"); date != "" {
		view.SetDatePrefix(datePrefixFromISO(date))
	}
	view.SetPage(pageParam(r))

	writeJSON(w, http.StatusOK, listPage{
		Items:      view.Page(),
		Page:       view.PageNumber(),
		TotalPages: view.TotalPages(),
		Filtered:   len(view.Filtered()),
		Total:      len(orders),
	})
}

// CatalogHandler handles GET /api/v1/products, the customer-facing catalog
// browse view.
func (a *App) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, listPage{
			Items: []models.Product{}, Page: 1, TotalPages: 0,
		})
		return
	}

	view := listview.New(listview.CatalogPageSize, func(p models.Product) []string {
		return []string{p.Name, p.Description, p.Category}
	}).WithCategoryField(func(p models.Product) string {
		return p.Category
	})

	view.SetItems(products)
	view.SetSearch(r.URL.Query().Get("search"))
	view.SetCategory(r.URL.Query().Get("category"))
	view.SetPage(pageParam(r))

	writeJSON(w, http.StatusOK, listPage{
		Items:      view.Page(),
		Page:       view.PageNumber(),
		TotalPages: view.TotalPages(),
		Filtered:   len(view.Filtered()),
		Total:      len(products),
	})
}

// AdminProductsHandler handles GET /api/v1/admin/products
func (a *App) AdminProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, listPage{
			Items: []models.Product{}, Page: 1, TotalPages: 0,
		})
		return
	}

	view := listview.New(listview.ProductsPageSize, func(p models.Product) []string {
		return []string{p.Name, p.Category}
	}).WithCategoryField(func(p models.Product) string {
		return p.Category
	})

	view.SetItems(products)
	view.SetSearch(r.URL.Query().Get("search"))
	view.SetCategory(r.URL.Query().Get("category"))
	view.SetPage(pageParam(r))

	writeJSON(w, http.StatusOK, listPage{
		Items:      view.Page(),
		Page:       view.PageNumber(),
		TotalPages: view.TotalPages(),
		Filtered:   len(view.Filtered()),
		Total:      len(products),
	})
}

// AdminUsersHandler handles GET /api/v1/admin/users
func (a *App) AdminUsersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := a.customers.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, listPage{
			Items: []models.Customer{}, Page: 1, TotalPages: 0,
		})
		return
	}

	view := listview.New(listview.UsersPageSize, func(c models.Customer) []string {
		name := c.Name
		if name == "" {
			name = strings.TrimSpace(c.FirstName + " " + c.LastName)
		}
		if name == "" {
			name = c.Username
		}
		return []string{name, c.Email, c.Phone}
	})

	view.SetItems(customers)
	view.SetSearch(r.URL.Query().Get("search"))
	view.SetPage(pageParam(r))

	writeJSON(w, http.StatusOK, listPage{
		Items:      view.Page(),
		Page:       view.PageNumber(),
		TotalPages: view.TotalPages(),
		Filtered:   len(view.Filtered()),
		Total:      len(customers),
	})
}

// CreateProductHandler handles POST /api/v1/admin/products
func (a *App) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	fields, image, imageName, err := parseProductForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := a.products.Create(r.Context(), fields, image, imageName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProductHandler handles PUT /api/v1/admin/products/{id}
func (a *App) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	fields, image, imageName, err := parseProductForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := a.products.Update(r.Context(), productID, fields, image, imageName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProductHandler handles DELETE /api/v1/admin/products/{id}
func (a *App) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	if err := a.products.Delete(r.Context(), productID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// parseProductForm extracts text fields and the optional image part from a
// multipart product form.
func parseProductForm(r *http.Request) (map[string]string, io.Reader, string, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, nil, "", fmt.Errorf("invalid multipart form: %w", err)
	}

	fields := make(map[string]string)
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		// image is optional
		return fields, nil, "", nil
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return fields, &buf, header.Filename, nil
}

// pageParam reads the requested page number, defaulting to 1.
func pageParam(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			return page
		}
	}
	return 1
}

// datePrefixFromISO converts a yyyy-mm-dd filter input into the M/D/YY
// prefix format the backend uses for order timestamps.
func datePrefixFromISO(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return iso
	}
	return fmt.Sprintf("%s/%s/%s", parts[1], parts[2], parts[0][2:])
}
