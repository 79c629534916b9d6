package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Samara")
	if err != nil {
		panic(err)
	}
}

// force timezone to Samara because the portal renders all dates
// in its local time, parsing them in server-local time shifts
// day boundaries when using <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}
