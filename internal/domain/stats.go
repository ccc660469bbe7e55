package domain

import "time"

type DailySales struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

type TopProduct struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitsSold int64  `json:"unitsSold"`
	Revenue   int64  `json:"revenue"`
}

type RecentOrder struct {
	ID           int64       `json:"id"`
	OrderNumber  string      `json:"orderNumber"`
	CustomerName string      `json:"customerName"`
	Date         time.Time   `json:"date"`
	Total        int64       `json:"total"`
	Status       OrderStatus `json:"status"`
}

type DashboardStats struct {
	SalesToday       int64         `json:"salesToday"`
	PendingOrders    int64         `json:"pendingOrders"`
	LowStockProducts int64         `json:"lowStockProducts"`
	NewCustomers     int64         `json:"newCustomers"`
	SalesLast7Days   []DailySales  `json:"salesLast7Days"`
	TopProducts      []TopProduct  `json:"topProducts"`
	RecentOrders     []RecentOrder `json:"recentOrders"`
}
