package interp

import "github.com/pontaoski/tran/ast"

// registry resolves class and interface names. When a name is declared
// twice the first declaration wins.
type registry struct {
	classes    map[string]*ast.Class
	interfaces map[string]*ast.Interface
	// order is every class in declaration order, runtime classes last
	order []*ast.Class
}

func newRegistry(prog *ast.Program, runtime []*ast.Class) *registry {
	r := &registry{
		classes:    make(map[string]*ast.Class),
		interfaces: make(map[string]*ast.Interface),
	}

	for _, iface := range prog.Interfaces {
		if _, ok := r.interfaces[iface.Name]; !ok {
			r.interfaces[iface.Name] = iface
		}
	}
	for _, class := range append(append([]*ast.Class{}, prog.Classes...), runtime...) {
		if _, ok := r.classes[class.Name]; ok {
			plog.Warningf("class %s is declared more than once, using the first", class.Name)
			continue
		}
		r.classes[class.Name] = class
		r.order = append(r.order, class)
	}

	return r
}

func (r *registry) class(name string) (*ast.Class, bool) {
	class, ok := r.classes[name]
	return class, ok
}

func (r *registry) iface(name string) (*ast.Interface, bool) {
	iface, ok := r.interfaces[name]
	return iface, ok
}
