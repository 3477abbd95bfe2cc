// Package response defines the data model the dispatcher packages
// into replies: the neutral Dispatch result handlers return, the
// Envelope that wraps it with a timestamp and miner description, and
// the per-command domain response bodies modeled on the well-known
// text-JSON cgminer monitoring API.
package response

// Bool mirrors the legacy text-JSON API's Y/N convention instead of a
// native JSON boolean, so responses stay byte-for-byte compatible with
// that wire format.
type Bool string

const (
	Y Bool = "Y"
	N Bool = "N"
)

// BoolOf converts a native bool to the Y/N wire convention.
func BoolOf(b bool) Bool {
	if b {
		return Y
	}
	return N
}

// Dispatch is the neutral success-or-error value a Handler method
// returns. The dispatcher wraps it with an Envelope; it never
// interprets the payload itself.
type Dispatch interface {
	isDispatch()
}

// Pools is the handle_pools response body.
type Pools struct {
	Pools []Pool `json:"POOLS"`
}

func (Pools) isDispatch() {}

// Pool describes one configured upstream pool.
type Pool struct {
	POOL     int    `json:"POOL"`
	URL      string `json:"URL"`
	Status   string `json:"Status"`
	Priority int    `json:"Priority"`
	User     string `json:"User"`
}

// Devs is the handle_devs response body.
type Devs struct {
	Devs []Device `json:"DEVS"`
}

func (Devs) isDispatch() {}

// Edevs is the handle_edevs response body: an extended device list.
type Edevs struct {
	Devs []Device `json:"DEVS"`
}

func (Edevs) isDispatch() {}

// Device describes one ASIC hash board.
type Device struct {
	ASC       int     `json:"ASC"`
	Name      string  `json:"Name"`
	Enabled   Bool    `json:"Enabled"`
	Status    string  `json:"Status"`
	MHS5s     float64 `json:"MHS 5s"`
	Accepted  int64   `json:"Accepted"`
	Rejected  int64   `json:"Rejected"`
	Hardware  int64   `json:"Hardware Errors"`
}

// Summary is the handle_summary response body.
type Summary struct {
	Elapsed       int64   `json:"Elapsed"`
	MHSav         float64 `json:"MHS av"`
	FoundBlocks   int64   `json:"Found Blocks"`
	Accepted      int64   `json:"Accepted"`
	Rejected      int64   `json:"Rejected"`
	HardwareErrs  int64   `json:"Hardware Errors"`
	Utility       float64 `json:"Utility"`
}

func (Summary) isDispatch() {}

// Config is the handle_config response body.
type Config struct {
	ASCCount  int    `json:"ASC Count"`
	PGACount  int    `json:"PGA Count"`
	PoolCount int    `json:"Pool Count"`
	Strategy  string `json:"Strategy"`
	LogInterval int  `json:"Log Interval"`
	Device    string `json:"Device Code"`
}

func (Config) isDispatch() {}

// DevDetails is the handle_dev_details response body.
type DevDetails struct {
	Details []DevDetail `json:"DEVDETAILS"`
}

func (DevDetails) isDispatch() {}

// DevDetail describes the static identity of one device.
type DevDetail struct {
	ASC     int    `json:"ASC"`
	Driver  string `json:"Driver"`
	Kernel  string `json:"Kernel"`
	Model   string `json:"Model"`
}

// Stats is the handle_stats response body.
type Stats struct {
	Stats []map[string]interface{} `json:"STATS"`
}

func (Stats) isDispatch() {}

// Estats is the handle_estats response body: extended stats.
type Estats struct {
	Stats []map[string]interface{} `json:"STATS"`
}

func (Estats) isDispatch() {}

// Coin is the handle_coin response body.
type Coin struct {
	Hashmethod string `json:"Hash Method"`
	CurrentBlockTime float64 `json:"Current Block Time"`
	CurrentBlockHash string `json:"Current Block Hash"`
}

func (Coin) isDispatch() {}

// AscCount is the handle_asc_count response body.
type AscCount struct {
	Count int `json:"Count"`
}

func (AscCount) isDispatch() {}

// Asc is the handle_asc(parameter) response body, describing one
// device addressed by index.
type Asc struct {
	Device Device `json:"ASC"`
}

func (Asc) isDispatch() {}

// Lcd is the handle_lcd response body: a compact summary meant for a
// small status display.
type Lcd struct {
	Elapsed  int64   `json:"Elapsed"`
	GHSav    float64 `json:"GHS av"`
	GHS5s    float64 `json:"GHS 5s"`
	Temp     float64 `json:"Temperature"`
}

func (Lcd) isDispatch() {}

// Version is the built-in version response: miner signature, miner
// version, and API version.
type Version struct {
	Signature string `json:"Signature"`
	Miner     string `json:"Miner"`
	API       string `json:"API"`
}

func (Version) isDispatch() {}

// Check is the built-in check response: whether a referenced command
// name is known (Exists) and whether it can be invoked (Access). The
// dispatcher reports Access with the same value as Exists.
type Check struct {
	Exists Bool `json:"Exists"`
	Access Bool `json:"Access"`
}

func (Check) isDispatch() {}
