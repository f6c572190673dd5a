package usage

import "errors"

// ErrQuotaExceeded is returned when a caller has no planning turns left this month.
var ErrQuotaExceeded = errors.New("monthly planning quota exceeded")

// DefaultMonthlyTurns is the number of planning turns granted per caller per month.
const DefaultMonthlyTurns = 100

const monthLayout = "2006-01"
