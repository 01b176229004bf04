// AngelaMos | 2026
// dto.go

package admin

type SystemStatsResponse struct {
	Version  string       `json:"version"`
	Uptime   string       `json:"uptime"`
	Totals   Totals       `json:"totales"`
	Database StoreStatus  `json:"baseDatos"`
	Redis    StoreStatus  `json:"redis"`
	Runtime  RuntimeStats `json:"runtime"`
}

// Totals are nil when the count query failed.
type Totals struct {
	Users *int `json:"usuarios"`
	Bots  *int `json:"bots"`
}

type StoreStatus struct {
	Healthy bool       `json:"healthy"`
	Latency string     `json:"latencia,omitempty"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// PoolStats merges the fields sql.DBStats and redis.PoolStats share closely
// enough to report side by side.
type PoolStats struct {
	Open    int   `json:"abiertas"`
	InUse   int   `json:"enUso"`
	Idle    int   `json:"libres"`
	Waits   int64 `json:"esperas"`
	Misses  int64 `json:"fallos,omitempty"`
	Timeout int64 `json:"timeouts"`
}

type RuntimeStats struct {
	GoVersion  string `json:"goVersion"`
	Goroutines int    `json:"goroutines"`
	CPUs       int    `json:"cpus"`
	HeapBytes  uint64 `json:"heapBytes"`
	SysBytes   uint64 `json:"sysBytes"`
	GCRuns     uint32 `json:"gcRuns"`
}
