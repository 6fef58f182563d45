package port

import "time"

type ClockPort interface {
	Now() time.Time
}

// UniqueNumberGeneratorPort выдает отображаемый номер договора. Уникальность не гарантируется.
type UniqueNumberGeneratorPort interface {
	Next() int
}
