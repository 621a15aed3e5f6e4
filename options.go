package staticrtree

// PackingMethod selects the bulk-load algorithm used by Build. All three
// methods produce equivalent on-disk layouts; they differ in how they
// cluster edges into leaves.
type PackingMethod int

const (
	// PackHilbert sorts edges along a Hilbert space-filling curve
	// (Kamel-Faloutsos).
	PackHilbert PackingMethod = iota
	// PackSTR tiles edges into vertical slabs sorted by latitude
	// (Leutenegger-Edgington-Lopez Sort-Tile-Recursive).
	PackSTR
	// PackOMT builds top-down, minimizing leaf overlap (Lee-Lee Overlap
	// Minimizing Top-down). This works well for the typical layout of road
	// network geometries and is the default.
	PackOMT
)

// String implements fmt.Stringer.
func (m PackingMethod) String() string {
	switch m {
	case PackHilbert:
		return "hilbert"
	case PackSTR:
		return "str"
	case PackOMT:
		return "omt"
	default:
		return "unknown"
	}
}

type options struct {
	method PackingMethod
	logger *Logger

	// Effective fan-out and leaf fill. The on-disk page size never
	// changes; lowering these only limits how full each node and leaf
	// page gets, which lets tests exercise deep trees on tiny inputs.
	branching uint32
	leafFill  uint32
}

// Option configures Build behavior.
type Option func(*options)

// WithPackingMethod selects the bulk-load algorithm. Default: PackOMT.
func WithPackingMethod(m PackingMethod) Option {
	return func(o *options) {
		o.method = m
	}
}

// WithLogger sets the logger used for build-progress tracing.
//
// If nil is passed, the noop logger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		method:    PackOMT,
		logger:    NoopLogger(),
		branching: BranchingFactor,
		leafFill:  LeafCapacity,
	}
}
