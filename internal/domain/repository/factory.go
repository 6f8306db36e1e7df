package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Events() EventRepository
	Orders() OrderRepository
	Inventory() InventoryRepository
}
