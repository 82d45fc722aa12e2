package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	&SysScheduler{},
	// Pricing
	&GlobalDiscount{},
	// Orders
	&Order{},
	&OrderItem{},
}
