package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Orders
	&Order{},
	&OrderStatusHistory{},
	// Executors
	&ExecutorProfile{},
}
