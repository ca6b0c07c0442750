package protobuf

import (
	"strings"

	"github.com/cockroachdb/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	// Register the well-known files generated definitions may import
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/timestamppb"

	"github.com/conanfanli/py2ts/internal/graph"
)

var scalarTypes = map[string]descriptorpb.FieldDescriptorProto_Type{
	"double":   descriptorpb.FieldDescriptorProto_TYPE_DOUBLE,
	"float":    descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
	"int64":    descriptorpb.FieldDescriptorProto_TYPE_INT64,
	"uint64":   descriptorpb.FieldDescriptorProto_TYPE_UINT64,
	"int32":    descriptorpb.FieldDescriptorProto_TYPE_INT32,
	"fixed64":  descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
	"fixed32":  descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
	"bool":     descriptorpb.FieldDescriptorProto_TYPE_BOOL,
	"string":   descriptorpb.FieldDescriptorProto_TYPE_STRING,
	"bytes":    descriptorpb.FieldDescriptorProto_TYPE_BYTES,
	"uint32":   descriptorpb.FieldDescriptorProto_TYPE_UINT32,
	"sfixed32": descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
	"sfixed64": descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
	"sint32":   descriptorpb.FieldDescriptorProto_TYPE_SINT32,
	"sint64":   descriptorpb.FieldDescriptorProto_TYPE_SINT64,
}

// Validate builds the file descriptor of the generated definitions and
// checks it the way protoc would: names, field numbers, enum value scoping
// and type references.
func (g *Generator) Validate(gr *graph.Graph, _ []byte) error {
	fd, err := g.FileDescriptor(gr)
	if err != nil {
		return err
	}
	if _, err := protodesc.NewFile(fd, protoregistry.GlobalFiles); err != nil {
		return errors.Wrap(err, "generated protobuf is invalid")
	}
	return nil
}

// FileDescriptor describes the definitions the generator renders for gr
func (g *Generator) FileDescriptor(gr *graph.Graph) (*descriptorpb.FileDescriptorProto, error) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(g.fileName()),
		Syntax:     proto.String("proto3"),
		Dependency: g.imports(gr),
	}
	if g.packageName != "" {
		fd.Package = proto.String(g.packageName)
	}

	for _, node := range gr.Nodes() {
		if node.Kind == graph.EnumNode {
			fd.EnumType = append(fd.EnumType, enumDescriptor(node))
			continue
		}

		msg, err := g.planMessage(node)
		if err != nil {
			return nil, err
		}
		fd.MessageType = append(fd.MessageType, g.messageDescriptor(gr, msg))
	}
	return fd, nil
}

func (g *Generator) fileName() string {
	if g.packageName == "" {
		return "schemas.proto"
	}
	return strings.ReplaceAll(g.packageName, ".", "/") + "/schemas.proto"
}

func enumDescriptor(node *graph.Node) *descriptorpb.EnumDescriptorProto {
	ed := &descriptorpb.EnumDescriptorProto{Name: proto.String(node.ShortName())}
	ed.Value = append(ed.Value, &descriptorpb.EnumValueDescriptorProto{
		Name:   proto.String(unspecifiedValue(node.ShortName())),
		Number: proto.Int32(0),
	})
	for i, m := range node.Enum.Members {
		ed.Value = append(ed.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(m),
			Number: proto.Int32(int32(i + 1)),
		})
	}
	return ed
}

// messageDescriptor mirrors generateMessage. Proto3 optional fields each
// get a synthetic oneof, declared after the real ones.
func (g *Generator) messageDescriptor(gr *graph.Graph, msg *message) *descriptorpb.DescriptorProto {
	md := &descriptorpb.DescriptorProto{Name: proto.String(msg.name)}

	oneofIndex := make(map[string]int32)
	for _, f := range msg.fields {
		if f.oneof == "" {
			continue
		}
		if _, ok := oneofIndex[f.oneof]; !ok {
			oneofIndex[f.oneof] = int32(len(md.OneofDecl))
			md.OneofDecl = append(md.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String(f.oneof)})
		}
	}

	for _, f := range msg.fields {
		fdp := &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(f.name),
			Number: proto.Int32(f.number),
			Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		}
		g.setType(gr, fdp, f.typ)

		switch {
		case f.oneof != "":
			fdp.OneofIndex = proto.Int32(oneofIndex[f.oneof])
		case f.label == labelRepeated:
			fdp.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		case f.label == labelOptional:
			fdp.Proto3Optional = proto.Bool(true)
			fdp.OneofIndex = proto.Int32(int32(len(md.OneofDecl)))
			md.OneofDecl = append(md.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String("_" + f.name)})
		}
		md.Field = append(md.Field, fdp)
	}
	return md
}

func (g *Generator) setType(gr *graph.Graph, fdp *descriptorpb.FieldDescriptorProto, typ elementType) {
	if typ.ref == "" {
		if scalar, ok := scalarTypes[typ.spelled]; ok {
			fdp.Type = scalar.Enum()
			return
		}
		fdp.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
		if strings.Contains(typ.spelled, ".") {
			fdp.TypeName = proto.String("." + typ.spelled)
		} else {
			fdp.TypeName = proto.String(g.fullName(typ.spelled))
		}
		return
	}

	fdp.TypeName = proto.String(g.fullName(typ.spelled))
	if typ.enum {
		fdp.Type = descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum()
		return
	}

	// Forward references are typed by their target when it was discovered
	// and otherwise left to the resolver
	node, ok := gr.Get(typ.ref)
	switch {
	case ok && node.Kind == graph.EnumNode:
		fdp.Type = descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum()
	case ok:
		fdp.Type = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum()
	}
}

func (g *Generator) fullName(name string) string {
	if g.packageName == "" {
		return "." + name
	}
	return "." + g.packageName + "." + name
}
