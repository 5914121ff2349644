package service

import "time"

// SetProductServiceClock replaces the clock of a service built by
// NewProductService.
func SetProductServiceClock(svc ProductService, now func() time.Time) {
	svc.(*productService).now = now
}
