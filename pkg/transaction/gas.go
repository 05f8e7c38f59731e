package transaction

const (
	TxGas                     uint64 = 5000
	ClauseGas                 uint64 = 16000
	ClauseGasContractCreation uint64 = 48000
	TxDataZeroGas             uint64 = 4
	TxDataNonZeroGas          uint64 = 68
)

// IntrinsicGas 计算 clauses 的固有 gas。
// 空 clause 列表按一个普通 clause 计费。
func IntrinsicGas(clauses ...Clause) uint64 {
	if len(clauses) == 0 {
		return TxGas + ClauseGas
	}

	total := TxGas
	for _, c := range clauses {
		if c.To == nil {
			total += ClauseGasContractCreation
		} else {
			total += ClauseGas
		}
		total += dataGas(c.Data)
	}
	return total
}

func dataGas(data []byte) uint64 {
	var gas uint64
	for _, b := range data {
		if b == 0 {
			gas += TxDataZeroGas
		} else {
			gas += TxDataNonZeroGas
		}
	}
	return gas
}
