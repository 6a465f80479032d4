package auth

// Claims es la identidad mínima que necesita el servicio.
// Todo el particionado de datos es por UserID.
type Claims struct {
	UserID string
	Email  string
}
