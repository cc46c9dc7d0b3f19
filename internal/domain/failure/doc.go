// Package failure turns opaque backend failure messages into a typed error taxonomy.
//
// Every error carries a fresh correlation ID, a severity and the layer that last
// handled it. The taxonomy has one concrete type per kind:
//
//	StockAvailableError    delete refused because stock remains (warning)
//	EntityNotFoundError    the record does not exist (error)
//	ConnectionFailureError the backend could not be reached (error)
//	ValidationFailureError a field value was rejected (warning)
//	GenericError           nothing more specific matched (error)
//
// Classification is a pure function of the raw message and caller context: the
// message is scanned for an ID, a quantity and a quoted name, then matched against
// an ordered pattern table. Patterns are data; adding a classification means
// adding a Pattern, not a branch.
package failure
