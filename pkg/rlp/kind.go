// Package rlp 在 go-ethereum rlp 之上实现按字段描述 (Profile) 的编解码。
//
// Profile 是有序的 (字段名, 字段类型) 列表；字段类型是封闭的枚举 Kind，
// 每种类型负责把值转换为规范的最短字节串。
package rlp

import (
	"fmt"

	"thor-wallet-core/pkg/errno"
)

// Kind 字段类型
type Kind uint8

const (
	// KindNumeric 无符号整数，大端最短编码，最多 Size 字节，0 编码为空串
	KindNumeric Kind = iota + 1
	// KindFixedBlob 固定 Size 字节
	KindFixedBlob
	// KindOptionalFixedBlob 固定 Size 字节或缺省 (编码为空串)
	KindOptionalFixedBlob
	// KindCompactFixedBlob 固定 Size 字节，编码时去掉前导零
	KindCompactFixedBlob
	// KindBlob 任意长度字节串
	KindBlob
	// KindBuffer 原样传递的字节串
	KindBuffer
	// KindList 同类型元素列表
	KindList
	// KindStruct 嵌套的字段列表
	KindStruct
)

var kindNames = [...]string{
	KindNumeric:           "numeric",
	KindFixedBlob:         "fixed",
	KindOptionalFixedBlob: "optional-fixed",
	KindCompactFixedBlob:  "compact-fixed",
	KindBlob:              "blob",
	KindBuffer:            "buffer",
	KindList:              "list",
	KindStruct:            "struct",
}

func (k Kind) String() string {
	if k >= KindNumeric && k <= KindStruct {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// LookupKind 按名称查找字段类型
func LookupKind(name string) (Kind, bool) {
	for k := KindNumeric; k <= KindStruct; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// sized 返回该类型是否需要 Size
func (k Kind) sized() bool {
	switch k {
	case KindNumeric, KindFixedBlob, KindOptionalFixedBlob, KindCompactFixedBlob:
		return true
	}
	return false
}

// Field 描述一个字段
type Field struct {
	Name string
	Kind Kind
	// Size 对 numeric 是最大字节数，对 fixed 类是精确字节数
	Size int
	// Elem 是 KindList 的元素类型
	Elem *Field
	// Fields 是 KindStruct 的成员
	Fields []Field
}

// Profile 是一个具名的有序字段列表
type Profile struct {
	Name   string
	Fields []Field
}

// Record 是按字段名索引的值
type Record map[string]any

func Numeric(name string, maxBytes int) Field {
	return Field{Name: name, Kind: KindNumeric, Size: maxBytes}
}

func FixedBlob(name string, size int) Field {
	return Field{Name: name, Kind: KindFixedBlob, Size: size}
}

func OptionalFixedBlob(name string, size int) Field {
	return Field{Name: name, Kind: KindOptionalFixedBlob, Size: size}
}

func CompactFixedBlob(name string, size int) Field {
	return Field{Name: name, Kind: KindCompactFixedBlob, Size: size}
}

func Blob(name string) Field {
	return Field{Name: name, Kind: KindBlob}
}

func Buffer(name string) Field {
	return Field{Name: name, Kind: KindBuffer}
}

// List 声明一个元素类型为 elem 的列表字段 (elem.Name 不参与编码)
func List(name string, elem Field) Field {
	return Field{Name: name, Kind: KindList, Elem: &elem}
}

func Struct(name string, fields ...Field) Field {
	return Field{Name: name, Kind: KindStruct, Fields: fields}
}

// NewField 按类型名构造字段，用于从配置或命令行描述字段
func NewField(name, kind string, size int) (Field, error) {
	k, ok := LookupKind(kind)
	if !ok {
		return Field{}, errno.New(errno.ErrIllegalArgument, "rlp.NewField", "unknown field kind",
			map[string]any{"field": name, "kind": kind}, nil)
	}
	if k == KindList || k == KindStruct {
		return Field{}, errno.New(errno.ErrIllegalArgument, "rlp.NewField", "field kind needs nested fields",
			map[string]any{"field": name, "kind": kind}, nil)
	}
	if k.sized() && size <= 0 {
		return Field{}, errno.New(errno.ErrIllegalArgument, "rlp.NewField", "field kind needs a positive size",
			map[string]any{"field": name, "kind": kind}, nil)
	}
	return Field{Name: name, Kind: k, Size: size}, nil
}
