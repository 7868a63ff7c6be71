package ir

// ServiceInfo represents a domain entrypoint: a group of related methods
// whose parameter and return types seed the type graph traversal.
type ServiceInfo struct {
	// Name is the service identifier (e.g., "Greeter", "Users").
	Name string

	// Methods contains all recognized methods in declaration order.
	Methods []MethodInfo

	// Doc is the optional documentation text.
	Doc string
}

// MethodInfo represents a single entrypoint method.
type MethodInfo struct {
	// Name is the method identifier within the service.
	Name string

	// FullName is the qualified name: "Service.Method".
	FullName string

	// Params contains the method's parameters after the context argument,
	// in declaration order.
	Params []ParamInfo

	// Returns is the result type descriptor. Zero for methods that only
	// return an error.
	Returns TypeInfo

	// Streaming reports a server-stream method; Returns then describes
	// the stream element type.
	Streaming bool

	// Doc is the optional documentation text.
	Doc string
}

// ParamInfo is a single method parameter.
type ParamInfo struct {
	Name string
	Type TypeInfo
}

// RootTypes returns the distinct parameter, return and stream element
// descriptors of all methods, in first-seen order. These are the roots
// the synthesizer traverses from.
func RootTypes(services []ServiceInfo) []TypeInfo {
	seen := make(map[string]bool)
	var roots []TypeInfo
	add := func(info TypeInfo) {
		if info.IsZero() || seen[info.Key] {
			return
		}
		seen[info.Key] = true
		roots = append(roots, info)
	}
	for _, svc := range services {
		for _, m := range svc.Methods {
			for _, p := range m.Params {
				add(p.Type)
			}
			add(m.Returns)
		}
	}
	return roots
}
