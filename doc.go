// Package polyjson converts Go values to and from JSON with polymorphic
// type recovery: every document (and, in envelope mode, every
// interface-typed value inside it) is wrapped in a {type,data} object
// naming the concrete Go type, so decoding needs no caller-supplied
// type information.
//
// # Quick Start
//
// Create an engine and round-trip a value:
//
//	engine, _ := polyjson.New()
//
//	type Point struct {
//	    X, Y int
//	}
//
//	out, _ := engine.ToJSON(Point{X: 1, Y: 2})
//	// {"type":"mypkg.Point","data":{"X":1,"Y":2}}
//
//	back, _ := engine.FromJSON(out)
//	// back.(Point) == Point{X: 1, Y: 2}
//
// The concrete type is discovered from the envelope, not from the call
// site. Lists and maps of mixed concrete types round-trip the same way:
// each interface-typed element carries its own envelope.
//
// # Codec Resolution
//
// Encoding and decoding go through codecs resolved per type. The
// engine walks an ordered factory list and memoizes the first match;
// factories registered with RegisterFactory run before the built-ins
// and earlier registrations win over later ones. RegisterCodec installs
// a codec for one exact type:
//
//	engine.RegisterCodec(reflect.TypeOf(Temperature(0)), tempCodec{})
//
// A custom registration also changes how values of that type are
// chosen in polymorphic positions: an explicitly registered codec for
// a value's run-time type is preferred over the structural default.
//
// # Type Names
//
// Envelope type names are derived automatically ("mypkg.Point",
// "[]string", "map[string]any") and registered on first encode.
// Decoding in a process that never encoded the type requires an
// explicit registration:
//
//	engine.RegisterTypeName("mypkg.Point", Point{})
//
// Unknown names fail decoding with ErrTypeResolution.
//
// # Configuration
//
// Engines are configured with options or a Config loaded from the
// environment or a YAML file:
//
//	cfg, _ := polyjson.LoadConfigFromEnvironment()
//	engine, _ := polyjson.New(polyjson.WithConfig(cfg))
//
// An Engine is safe for concurrent use and meant to be shared.
package polyjson
