package devapi

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre       string `gorm:"not null"                 json:"nombre"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:cliente" json:"role"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre      string  `gorm:"not null"                 json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `gorm:"not null"                 json:"precio"`
	Categoria   string  `json:"categoria"`
	Rating      float64 `json:"rating"`
	Stock       uint    `json:"stock"`
	VendorID    uint    `gorm:"index"                    json:"-"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint    `gorm:"index;not null"              json:"-"`
	ProductID uint    `gorm:"not null"                    json:"producto_id"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Cantidad  int     `gorm:"default:1;check:cantidad>0"  json:"cantidad"`
}

type Order struct {
	ID     uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint        `gorm:"index;not null"           json:"-"`
	Email  string      `json:"email"`
	Total  float64     `json:"total"`
	Items  []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   uint    `gorm:"index;not null"           json:"-"`
	ProductID uint    `gorm:"not null"                 json:"producto_id"`
	Nombre    string  `json:"nombre"`
	Precio    float64 `json:"precio"`
	Cantidad  int     `json:"cantidad"`
}

type Payment struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID uint    `gorm:"index"                    json:"order_id"`
	Email   string  `json:"email"`
	Total   float64 `json:"total"`
	Status  string  `gorm:"default:pending"          json:"status"`
}

type Devolution struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID uint   `gorm:"index;not null"           json:"order_id"`
	Email   string `json:"email"`
	Reason  string `json:"reason"`
}

type PasswordReset struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"index;not null"           json:"email"`
	Token     string    `gorm:"unique;not null"          json:"token"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	Used      bool      `gorm:"default:false"            json:"used"`
}

// Setting is one platform configuration entry exposed under /admin/config.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null"   json:"value"`
}
