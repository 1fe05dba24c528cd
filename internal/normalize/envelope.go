package normalize

import (
	"github.com/sirupsen/logrus"
)

// UnwrapList extrae la colección de registros de una respuesta del backend.
// La respuesta puede ser la lista directamente o un objeto que la envuelve
// bajo alguna de las claves conocidas; se prueban en orden. No encontrar
// ninguna lista es una condición de resultado vacío, no un error.
func UnwrapList(log logrus.FieldLogger, payload any, envelopeKeys []string) []map[string]any {
	if payload == nil {
		return nil
	}
	if items, ok := payload.([]any); ok {
		return toRecords(items)
	}
	wrapper, ok := payload.(map[string]any)
	if !ok {
		log.Warn("Unexpected response envelope shape, treating as empty result")
		return nil
	}
	for _, key := range envelopeKeys {
		if items, ok := wrapper[key].([]any); ok {
			return toRecords(items)
		}
	}
	log.WithField("keys", envelopeKeys).Warn("No list found under any known envelope key, treating as empty result")
	return nil
}

// UnwrapRecord extrae un registro individual que puede venir envuelto
// (por ejemplo, la respuesta de asignar bajo "incidente").
func UnwrapRecord(payload any, envelopeKeys []string) map[string]any {
	record, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range envelopeKeys {
		if inner, ok := record[key].(map[string]any); ok {
			return inner
		}
	}
	return record
}

func toRecords(items []any) []map[string]any {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		} else {
			// un elemento no-objeto se descarta igual que un registro malformado
			records = append(records, nil)
		}
	}
	return records
}
