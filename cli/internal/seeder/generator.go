// Package seeder generates synthetic BGL-format log lines for demo and
// load-testing runs. Lines follow the supercomputer RAS layout: alert
// tag first ("-" for non-alert), then timestamp, date, node, full
// timestamp, node again, and the RAS component/level/message tail.
package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var alertTags = []string{
	"KERNDTLB", "KERNSTOR", "KERNMNTF", "KERNTERM", "KERNREC", "APPREAD", "APPSEV",
}

type messageTemplate struct {
	component string
	level     string
	format    string
	args      int
}

var normalTemplates = []messageTemplate{
	{"KERNEL", "INFO", "instruction cache parity error corrected", 0},
	{"KERNEL", "INFO", "generating core.%d", 1},
	{"KERNEL", "INFO", "%d double-hummer alignment exceptions", 1},
	{"KERNEL", "INFO", "CE sym %d, at 0x%08x, mask 0x%02x", 3},
	{"KERNEL", "INFO", "total of %d ddr error(s) detected and corrected", 1},
	{"KERNEL", "INFO", "shutdown complete", 0},
	{"APP", "INFO", "ciod: Message code %d is not %d or 4294967295", 2},
	{"DISCOVERY", "INFO", "node card is not fully functional", 0},
}

var alertTemplates = []messageTemplate{
	{"KERNEL", "FATAL", "data TLB error interrupt", 0},
	{"KERNEL", "FATAL", "data storage interrupt", 0},
	{"KERNEL", "FATAL", "machine check interrupt", 0},
	{"KERNEL", "FATAL", "rts panic! - stopping execution", 0},
	{"KERNEL", "FATAL", "rts internal error", 0},
	{"APP", "FATAL", "ciod: failed to read message prefix on control stream", 0},
	{"MMCS", "ERROR", "idoproxy communication failure: %d", 1},
}

// Generator produces reproducible synthetic lines for a fixed seed.
type Generator struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
	start time.Time
}

func New(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
		start: time.Date(2005, 6, 3, 15, 42, 50, 0, time.UTC),
	}
}

// Line renders one dataset line. Alert lines get a random alert tag,
// non-alert lines the "-" marker.
func (g *Generator) Line(lineID int, alert bool) string {
	ts := g.start.Add(time.Duration(lineID) * time.Second)
	node := g.node()

	tag := "-"
	tmpl := normalTemplates[g.rng.Intn(len(normalTemplates))]
	if alert {
		tag = alertTags[g.rng.Intn(len(alertTags))]
		tmpl = alertTemplates[g.rng.Intn(len(alertTemplates))]
	}

	return fmt.Sprintf("%s %d %s %s %s %s RAS %s %s %s",
		tag,
		ts.Unix(),
		ts.Format("2006.01.02"),
		node,
		ts.Format("2006-01-02-15.04.05.000000"),
		node,
		tmpl.component,
		tmpl.level,
		g.message(tmpl),
	)
}

func (g *Generator) node() string {
	return fmt.Sprintf("R%02d-M%d-N%d-C:J%02d-U%02d",
		g.faker.Number(0, 63),
		g.faker.Number(0, 1),
		g.faker.Number(0, 15),
		g.faker.Number(0, 18),
		g.faker.Number(0, 11),
	)
}

func (g *Generator) message(tmpl messageTemplate) string {
	if tmpl.args == 0 {
		return tmpl.format
	}
	args := make([]interface{}, tmpl.args)
	for i := range args {
		args[i] = g.faker.Number(0, 1<<24)
	}
	return fmt.Sprintf(tmpl.format, args...)
}
