package compiler

import (
	"fmt"

	"github.com/thiremani/segarr/types"
	"tinygo.org/x/go-llvm"
)

type irGen struct {
	Context    llvm.Context
	Module     llvm.Module
	modPath    string
	strCounter int
}

// GenerateIR emits every result as an external constant global named
// Seg_[ModPath]_p_[Name] and returns the module's textual IR.
func GenerateIR(unit *Unit, modPath string) (string, error) {
	if err := ValidateModulePath(modPath); err != nil {
		return "", err
	}

	ctx := llvm.NewContext()
	defer ctx.Dispose()

	g := &irGen{
		Context: ctx,
		Module:  ctx.NewModule(modPath),
		modPath: modPath,
	}
	defer g.Module.Dispose()

	for _, r := range unit.Results {
		arrType := g.mapToLLVMType(r.Type)
		init := g.constArray(r.Type, r.Values)
		g.makeGlobalConst(arrType, MangleGlobal(modPath, r.Name), init, llvm.ExternalLinkage)
	}
	return g.Module.String(), nil
}

func (g *irGen) mapToLLVMType(t types.Type) llvm.Type {
	switch t := t.(type) {
	case types.Int:
		return g.Context.IntType(int(t.Width))
	case types.Float:
		if t.Width == 32 {
			return g.Context.FloatType()
		}
		return g.Context.DoubleType()
	case types.Str:
		// pointer to a NUL-terminated string
		return llvm.PointerType(g.Context.Int8Type(), 0)
	case types.Bool:
		return g.Context.Int8Type()
	case types.Array:
		return llvm.ArrayType(g.mapToLLVMType(t.Elem), t.Len)
	}
	panic(fmt.Sprintf("unknown type in mapToLLVMType: %s", t))
}

func (g *irGen) constArray(t types.Array, vals []Value) llvm.Value {
	elems := make([]llvm.Value, len(vals))
	for i, v := range vals {
		elems[i] = g.constValue(v)
	}
	return llvm.ConstArray(g.mapToLLVMType(t.Elem), elems)
}

func (g *irGen) constValue(v Value) llvm.Value {
	switch v := v.(type) {
	case Int:
		return llvm.ConstInt(g.mapToLLVMType(v.T), uint64(v.V), true)
	case Uint:
		return llvm.ConstInt(g.mapToLLVMType(v.T), v.V, false)
	case Float:
		return llvm.ConstFloat(g.mapToLLVMType(v.T), v.V)
	case Str:
		return g.constCString(v.V)
	case Bool:
		var b uint64
		if v.V {
			b = 1
		}
		return llvm.ConstInt(g.Context.Int8Type(), b, false)
	case Array:
		return g.constArray(v.T, v.Elems)
	}
	panic(fmt.Sprintf("unknown value in constValue: %T", v))
}

// constCString adds a private string global and returns it as a pointer.
func (g *irGen) constCString(value string) llvm.Value {
	name := fmt.Sprintf("static_str_%d", g.strCounter)
	g.strCounter++
	strConst := g.Context.ConstString(value, true)
	arrType := llvm.ArrayType(g.Context.Int8Type(), len(value)+1)
	return g.makeGlobalConst(arrType, name, strConst, llvm.PrivateLinkage)
}

func (g *irGen) makeGlobalConst(llvmType llvm.Type, name string, val llvm.Value, linkage llvm.Linkage) llvm.Value {
	global := llvm.AddGlobal(g.Module, llvmType, name)
	global.SetInitializer(val)
	global.SetLinkage(linkage)
	global.SetUnnamedAddr(true)
	global.SetGlobalConstant(true)
	return global
}
