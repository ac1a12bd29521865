package util

import (
	"strconv"
	"sync"

	snowflake "github.com/yockii/snowflake_ext"
)

var (
	idGenerator *snowflake.Worker
	idMu        sync.Mutex
)

// InitNode 初始化ID生成器
func InitNode(nodeID uint64) error {
	worker, err := snowflake.NewSnowflake(nodeID)
	if err != nil {
		return err
	}
	idMu.Lock()
	idGenerator = worker
	idMu.Unlock()
	return nil
}

// NewID 生成新的ID，未初始化时使用节点1
func NewID() uint64 {
	idMu.Lock()
	if idGenerator == nil {
		worker, err := snowflake.NewSnowflake(1)
		if err != nil {
			idMu.Unlock()
			panic(err)
		}
		idGenerator = worker
	}
	g := idGenerator
	idMu.Unlock()
	return g.NextId()
}

// FormatID ID的字符串形式
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID 解析字符串形式的ID，非法或为0时返回错误
func ParseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
