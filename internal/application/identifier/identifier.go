// Package identifier genera los identificadores externos del sistema: códigos
// de correlación QR y consecutivos de manifiesto. Ninguno se regenera ni se
// reutiliza una vez persistido.
package identifier

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Prefijos reservados de códigos de correlación.
const (
	PrefixProducto  = "PROD"
	PrefixManifest  = "MAN-QR"
	ManifestPattern = "MAN-%s-%04d"
)

// CorrelationCode produce PREFIX-YYYYMMDDHHMMSS-RRRR donde RRRR son 4 hex
// mayúsculas de crypto/rand. La colisión es improbable pero posible: el caller
// debe re-tirar mientras el código exista en almacenamiento, y la constraint
// única al insertar es el respaldo final.
func CorrelationCode(prefix string) string {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		panic("identifier: crypto/rand no disponible: " + err.Error())
	}
	return fmt.Sprintf("%s-%s-%s",
		prefix,
		time.Now().Format("20060102150405"),
		strings.ToUpper(hex.EncodeToString(buf)),
	)
}

// ManifestNumber produce MAN-YYYYMMDD-NNNN para el día de t con el consecutivo
// seq (1-based, relleno a 4 dígitos). seq viene de contar los manifiestos del
// día dentro de la transacción de creación; dos creaciones concurrentes pueden
// leer el mismo conteo y el segundo commit falla contra la constraint única.
func ManifestNumber(t time.Time, seq int) string {
	return fmt.Sprintf(ManifestPattern, t.Format("20060102"), seq)
}
