package errors

import "strconv"

// ERR is the error code carried by every *Error.
type ERR int32

const (
	ERR_UNKNOWN          ERR = 0
	ERR_INVALID_ARGUMENT ERR = 1
	ERR_NOT_FOUND        ERR = 2
	ERR_PROCESSING       ERR = 3
	ERR_CONFIGURATION    ERR = 4
	ERR_CONTEXT_CANCELED ERR = 5
	ERR_ERROR            ERR = 9

	// snapshot decoding, 10-19
	ERR_TRUNCATED_INPUT     ERR = 10
	ERR_BAD_MAGIC           ERR = 11
	ERR_UNSUPPORTED_VERSION ERR = 12
	ERR_SCRIPT_TOO_LONG     ERR = 13
	ERR_POINT_NOT_ON_CURVE  ERR = 14
	ERR_VALUE_OVERFLOW      ERR = 15
	ERR_TRAILING_DATA       ERR = 16

	// services, 50-59
	ERR_SERVICE_ERROR ERR = 50

	// storage, 60-69
	ERR_STORAGE_UNAVAILABLE ERR = 60
	ERR_STORAGE_ERROR       ERR = 61
	ERR_STORAGE_EXISTS      ERR = 62
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "NOT_FOUND",
	3:  "PROCESSING",
	4:  "CONFIGURATION",
	5:  "CONTEXT_CANCELED",
	9:  "ERROR",
	10: "TRUNCATED_INPUT",
	11: "BAD_MAGIC",
	12: "UNSUPPORTED_VERSION",
	13: "SCRIPT_TOO_LONG",
	14: "POINT_NOT_ON_CURVE",
	15: "VALUE_OVERFLOW",
	16: "TRAILING_DATA",
	50: "SERVICE_ERROR",
	60: "STORAGE_UNAVAILABLE",
	61: "STORAGE_ERROR",
	62: "STORAGE_EXISTS",
}

var ERR_value = func() map[string]int32 {
	m := make(map[string]int32, len(ERR_name))
	for k, v := range ERR_name {
		m[v] = k
	}

	return m
}()

func (x ERR) Enum() *ERR {
	p := new(ERR)
	*p = x

	return p
}

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return "ERR(" + strconv.Itoa(int(x)) + ")"
}
