// Package reference embeds reference fatty acid compositions.
package reference

import (
	_ "embed"
	"sync"

	"github.com/apache/arrow/go/v18/arrow"

	"lipid/internal/engine"
)

// Quantity columns of every reference record.
const (
	Mean              = "Mean"
	StandardDeviation = "StandardDeviation"
)

//go:embed mature_milk.csv
var matureMilkCSV []byte

var matureMilk = sync.OnceValues(func() (arrow.Record, error) {
	return engine.LoadProfile(matureMilkCSV, engine.WithWorkers(1))
})

// MatureMilk returns the fatty acid composition of mature human milk, in
// percent of total fatty acids. The record is parsed on first use and
// shared; callers must not release it.
func MatureMilk() (arrow.Record, error) {
	return matureMilk()
}

// MatureMilkProfile returns a profile over the mean composition. opts are
// usually config.EngineConfig.Options.
func MatureMilkProfile(opts ...engine.Option) (*engine.Profile, error) {
	rec, err := matureMilk()
	if err != nil {
		return nil, err
	}
	return engine.NewProfile(rec, Mean, opts...)
}
