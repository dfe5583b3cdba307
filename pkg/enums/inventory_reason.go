package enums

// InventoryReason tags an entry in the inventory audit log.
type InventoryReason string

const (
	InventoryReasonCreate  InventoryReason = "CREACION"
	InventoryReasonAdjust  InventoryReason = "AJUSTE_MANUAL"
	InventoryReasonImport  InventoryReason = "IMPORTACION"
	InventoryReasonRestore InventoryReason = "RESTAURACION_DANO"
)

// String implements fmt.Stringer.
func (r InventoryReason) String() string {
	return string(r)
}
