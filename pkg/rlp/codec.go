package rlp

import (
	"bytes"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethrlp "github.com/ethereum/go-ethereum/rlp"

	"thor-wallet-core/pkg/errno"
)

// Encode 按 profile 将 record 编码为 RLP 列表
func Encode(profile Profile, record Record) ([]byte, error) {
	tree, err := encodeFields(profile.Name, profile.Fields, record, "")
	if err != nil {
		return nil, err
	}
	out, err := ethrlp.EncodeToBytes(tree)
	if err != nil {
		return nil, codecError(profile.Name, "", "rlp encoding failed", err)
	}
	return out, nil
}

// Decode 按 profile 解码 RLP 列表。
// 解码结果必须能重新编码为完全相同的字节，非规范编码 (如数值带前导零) 会被拒绝。
func Decode(profile Profile, data []byte) (Record, error) {
	kind, content, rest, err := ethrlp.Split(data)
	if err != nil {
		return nil, codecError(profile.Name, "", "malformed input", err)
	}
	if kind != ethrlp.List {
		return nil, codecError(profile.Name, "", "expect list", nil)
	}
	if len(rest) != 0 {
		return nil, codecError(profile.Name, "", "trailing bytes after list", nil)
	}

	record, err := decodeFields(profile.Name, profile.Fields, content, "")
	if err != nil {
		return nil, err
	}

	reencoded, err := Encode(profile, record)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(reencoded, data) {
		return nil, codecError(profile.Name, "", "non-canonical encoding", nil)
	}
	return record, nil
}

func codecError(profile, path, msg string, cause error) error {
	data := map[string]any{"profile": profile}
	if path != "" {
		data["field"] = path
	}
	return errno.New(errno.ErrInvalidRLP, "rlp.Codec", msg, data, cause)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func encodeFields(profile string, fields []Field, record Record, prefix string) ([]any, error) {
	items := make([]any, 0, len(fields))
	for _, f := range fields {
		path := join(prefix, f.Name)
		v, ok := record[f.Name]
		if !ok && f.Kind != KindOptionalFixedBlob {
			return nil, codecError(profile, path, "missing field", nil)
		}
		item, err := encodeValue(profile, f, v, path)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func encodeValue(profile string, f Field, v any, path string) (any, error) {
	switch f.Kind {
	case KindNumeric:
		n, err := toBigInt(v)
		if err != nil {
			return nil, codecError(profile, path, "expect unsigned integer", err)
		}
		b := n.Bytes()
		if len(b) > f.Size {
			return nil, codecError(profile, path, "numeric exceeds "+strconv.Itoa(f.Size)+" bytes", nil)
		}
		return b, nil

	case KindFixedBlob:
		b, err := toBytes(v)
		if err != nil || len(b) != f.Size {
			return nil, codecError(profile, path, "expect "+strconv.Itoa(f.Size)+" bytes", err)
		}
		return b, nil

	case KindOptionalFixedBlob:
		b, err := toBytes(v)
		if err != nil {
			return nil, codecError(profile, path, "expect bytes", err)
		}
		if len(b) != 0 && len(b) != f.Size {
			return nil, codecError(profile, path, "expect "+strconv.Itoa(f.Size)+" bytes or nothing", nil)
		}
		return b, nil

	case KindCompactFixedBlob:
		b, err := toBytes(v)
		if err != nil || len(b) != f.Size {
			return nil, codecError(profile, path, "expect "+strconv.Itoa(f.Size)+" bytes", err)
		}
		return bytes.TrimLeft(b, "\x00"), nil

	case KindBlob, KindBuffer:
		b, err := toBytes(v)
		if err != nil {
			return nil, codecError(profile, path, "expect bytes", err)
		}
		return b, nil

	case KindList:
		elems, err := toSlice(v)
		if err != nil {
			return nil, codecError(profile, path, "expect list", err)
		}
		items := make([]any, 0, len(elems))
		for i, e := range elems {
			item, err := encodeValue(profile, *f.Elem, e, join(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case KindStruct:
		r, ok := v.(Record)
		if !ok {
			return nil, codecError(profile, path, "expect record", nil)
		}
		return encodeFields(profile, f.Fields, r, path)
	}
	return nil, codecError(profile, path, "unknown field kind "+f.Kind.String(), nil)
}

func decodeFields(profile string, fields []Field, data []byte, prefix string) (Record, error) {
	record := make(Record, len(fields))
	for _, f := range fields {
		path := join(prefix, f.Name)
		if len(data) == 0 {
			return nil, codecError(profile, path, "missing field", nil)
		}
		kind, content, rest, err := ethrlp.Split(data)
		if err != nil {
			return nil, codecError(profile, path, "malformed item", err)
		}
		v, err := decodeValue(profile, f, kind, content, path)
		if err != nil {
			return nil, err
		}
		record[f.Name] = v
		data = rest
	}
	if len(data) != 0 {
		return nil, codecError(profile, prefix, "too many items", nil)
	}
	return record, nil
}

func decodeValue(profile string, f Field, kind ethrlp.Kind, content []byte, path string) (any, error) {
	switch f.Kind {
	case KindList, KindStruct:
		if kind != ethrlp.List {
			return nil, codecError(profile, path, "expect list", nil)
		}
	default:
		if kind == ethrlp.List {
			return nil, codecError(profile, path, "expect string", nil)
		}
	}

	switch f.Kind {
	case KindNumeric:
		if len(content) > f.Size {
			return nil, codecError(profile, path, "numeric exceeds "+strconv.Itoa(f.Size)+" bytes", nil)
		}
		if len(content) > 0 && content[0] == 0 {
			return nil, codecError(profile, path, "numeric has leading zero", nil)
		}
		return new(big.Int).SetBytes(content), nil

	case KindFixedBlob:
		if len(content) != f.Size {
			return nil, codecError(profile, path, "expect "+strconv.Itoa(f.Size)+" bytes", nil)
		}
		return bytes.Clone(content), nil

	case KindOptionalFixedBlob:
		if len(content) == 0 {
			return []byte(nil), nil
		}
		if len(content) != f.Size {
			return nil, codecError(profile, path, "expect "+strconv.Itoa(f.Size)+" bytes or nothing", nil)
		}
		return bytes.Clone(content), nil

	case KindCompactFixedBlob:
		if len(content) > f.Size {
			return nil, codecError(profile, path, "exceeds "+strconv.Itoa(f.Size)+" bytes", nil)
		}
		if len(content) > 0 && content[0] == 0 {
			return nil, codecError(profile, path, "compact value has leading zero", nil)
		}
		out := make([]byte, f.Size)
		copy(out[f.Size-len(content):], content)
		return out, nil

	case KindBlob, KindBuffer:
		return bytes.Clone(content), nil

	case KindList:
		items := make([]any, 0)
		for i := 0; len(content) > 0; i++ {
			itemPath := join(path, strconv.Itoa(i))
			k, c, rest, err := ethrlp.Split(content)
			if err != nil {
				return nil, codecError(profile, itemPath, "malformed item", err)
			}
			v, err := decodeValue(profile, *f.Elem, k, c, itemPath)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
			content = rest
		}
		return items, nil

	case KindStruct:
		return decodeFields(profile, f.Fields, content, path)
	}
	return nil, codecError(profile, path, "unknown field kind "+f.Kind.String(), nil)
}

var errNegative = errno.New(errno.ErrIllegalArgument, "rlp.Numeric", "negative value", nil, nil)

// toBigInt 支持无符号/有符号整数、*big.Int、十进制或 0x 十六进制字符串
func toBigInt(v any) (*big.Int, error) {
	var n *big.Int
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return new(big.Int), nil
		}
		n = x
	case uint8:
		n = new(big.Int).SetUint64(uint64(x))
	case uint16:
		n = new(big.Int).SetUint64(uint64(x))
	case uint32:
		n = new(big.Int).SetUint64(uint64(x))
	case uint64:
		n = new(big.Int).SetUint64(x)
	case uint:
		n = new(big.Int).SetUint64(uint64(x))
	case int:
		n = big.NewInt(int64(x))
	case int64:
		n = big.NewInt(x)
	case string:
		var ok bool
		if strings.HasPrefix(x, "0x") || strings.HasPrefix(x, "0X") {
			n, ok = new(big.Int).SetString(x[2:], 16)
		} else {
			n, ok = new(big.Int).SetString(x, 10)
		}
		if !ok {
			return nil, errno.New(errno.ErrIllegalArgument, "rlp.Numeric", "invalid number string", nil, nil)
		}
	default:
		return nil, errno.New(errno.ErrInvalidDataType, "rlp.Numeric", "unsupported numeric type", nil, nil)
	}
	if n.Sign() < 0 {
		return nil, errNegative
	}
	return n, nil
}

// toBytes 支持 []byte、0x 十六进制字符串和 nil
func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		b, err := hexutil.Decode(x)
		if err != nil {
			return nil, errno.New(errno.ErrIllegalArgument, "rlp.Bytes", "invalid hex string", nil, err)
		}
		return b, nil
	}
	return nil, errno.New(errno.ErrInvalidDataType, "rlp.Bytes", "unsupported bytes type", nil, nil)
}

func toSlice(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	case []Record:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, nil
	case [][]byte:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, nil
	}
	return nil, errno.New(errno.ErrInvalidDataType, "rlp.List", "unsupported list type", nil, nil)
}
