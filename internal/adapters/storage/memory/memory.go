// Package memory implementa los repositorios sobre mapas en memoria.
// Es el backend por defecto para desarrollo y tests; se pierde todo al
// reiniciar el proceso.
package memory

import "errors"

// ErrNotFound lo comparten todos los repositorios del paquete.
var ErrNotFound = errors.New("not found")
