package embedinfo

import "github.com/haasonsaas/embedinfo/pkg/actionsdk"

// Classify returns the datatype the editor declares for a variable holding
// the value of key. It is editor metadata only and is never checked against
// the value actually stored.
func Classify(key InfoKey) actionsdk.Datatype {
	switch key {
	case KeyAuthor, KeyFields:
		return actionsdk.DatatypeStructured
	case KeyFiles:
		return actionsdk.DatatypeFiles
	default:
		return actionsdk.DatatypeText
	}
}
