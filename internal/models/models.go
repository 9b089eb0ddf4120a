package models

// Role tags carried by the platform API. Registration uses "tipo": "cliente";
// login responses report the same value under "role".
const (
	RoleCustomer = "cliente"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	ID     uint   `json:"id,omitempty"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	Tipo   string `json:"tipo,omitempty"`
}

// RoleTag returns the effective role, whichever field the server used.
func (u User) RoleTag() string {
	if u.Role != "" {
		return u.Role
	}
	return u.Tipo
}

type Product struct {
	ID          uint    `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Categoria   string  `json:"categoria"`
	Rating      float64 `json:"rating,omitempty"`
	Stock       uint    `json:"stock,omitempty"`
}

// CartLine mirrors one entry of the server-side cart resource.
type CartLine struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"producto_id"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Cantidad  int     `json:"cantidad"`
}

type OrderItem struct {
	ProductID uint    `json:"producto_id"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Cantidad  int     `json:"cantidad"`
}

type Order struct {
	ID    uint        `json:"id,omitempty"`
	Items []OrderItem `json:"items"`
	Total float64     `json:"total"`
}

type Devolution struct {
	OrderID uint   `json:"order_id"`
	Email   string `json:"email"`
	Reason  string `json:"reason"`
}
