package errors

// ERR is the numeric code carried by every Error. Codes are stable across
// releases because they cross the RPC boundary in structured error replies.
type ERR int32

const (
	ERR_UNKNOWN             ERR = 0
	ERR_INVALID_ARGUMENT    ERR = 1
	ERR_PROCESSING          ERR = 2
	ERR_CONFIGURATION       ERR = 3
	ERR_NOT_FOUND           ERR = 4
	ERR_CONFLICT            ERR = 5
	ERR_SERVICE_NOT_STARTED ERR = 6
	ERR_SERVICE_ERROR       ERR = 7

	ERR_METHOD_NOT_FOUND  ERR = 10
	ERR_INVALID_PARAMETER ERR = 11
	ERR_PARSE             ERR = 12

	ERR_AMOUNT_OVERFLOW ERR = 20
	ERR_AMOUNT_INVALID  ERR = 21
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "PROCESSING",
	3:  "CONFIGURATION",
	4:  "NOT_FOUND",
	5:  "CONFLICT",
	6:  "SERVICE_NOT_STARTED",
	7:  "SERVICE_ERROR",
	10: "METHOD_NOT_FOUND",
	11: "INVALID_PARAMETER",
	12: "PARSE",
	20: "AMOUNT_OVERFLOW",
	21: "AMOUNT_INVALID",
}

var ERR_value = map[string]int32{
	"UNKNOWN":             0,
	"INVALID_ARGUMENT":    1,
	"PROCESSING":          2,
	"CONFIGURATION":       3,
	"NOT_FOUND":           4,
	"CONFLICT":            5,
	"SERVICE_NOT_STARTED": 6,
	"SERVICE_ERROR":       7,
	"METHOD_NOT_FOUND":    10,
	"INVALID_PARAMETER":   11,
	"PARSE":               12,
	"AMOUNT_OVERFLOW":     20,
	"AMOUNT_INVALID":      21,
}

func (e ERR) String() string {
	if name, ok := ERR_name[int32(e)]; ok {
		return name
	}

	return "UNKNOWN"
}

func (e ERR) Enum() string {
	return e.String()
}
