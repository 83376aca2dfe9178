package schemas

import "gorm.io/gorm/schema"

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Revision{},
	}
}

// TableNames is the set of known table names.
func TableNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, model := range Models() {
		if tabler, ok := model.(schema.Tabler); ok {
			names[tabler.TableName()] = struct{}{}
		}
	}
	return names
}
