// Package fsm 定义各类业务状态的显式流转表，状态写入前必须先通过校验
package fsm

import (
	"fmt"

	"energy-ops-console/internal/error/code"
)

// Transition 单条流转规则
type Transition struct {
	From  string
	Event string
	To    string
}

// Machine 状态机
type Machine struct {
	name        string
	transitions map[string]map[string]string
	states      map[string]bool
}

// New 根据流转表创建状态机
func New(name string, transitions []Transition) *Machine {
	m := &Machine{
		name:        name,
		transitions: make(map[string]map[string]string),
		states:      make(map[string]bool),
	}
	for _, t := range transitions {
		if m.transitions[t.From] == nil {
			m.transitions[t.From] = make(map[string]string)
		}
		m.transitions[t.From][t.Event] = t.To
		m.states[t.From] = true
		m.states[t.To] = true
	}
	return m
}

// Name 状态机名称
func (m *Machine) Name() string {
	return m.name
}

// Fire 根据事件计算目标状态
func (m *Machine) Fire(from, event string) (string, error) {
	if to, ok := m.transitions[from][event]; ok {
		return to, nil
	}
	return "", code.New(code.ErrInvalidTransition, fmt.Sprintf("当前状态[%s]不允许执行[%s]", from, event))
}

// CanFire 判断事件在当前状态下是否可执行
func (m *Machine) CanFire(from, event string) bool {
	_, ok := m.transitions[from][event]
	return ok
}

// Move 校验直接指定目标状态的流转
func (m *Machine) Move(from, to string) error {
	for _, target := range m.transitions[from] {
		if target == to {
			return nil
		}
	}
	return code.New(code.ErrInvalidTransition, fmt.Sprintf("状态不能从[%s]变更为[%s]", from, to))
}

// Known 判断状态是否属于该状态机
func (m *Machine) Known(state string) bool {
	return m.states[state]
}

// Events 返回状态机支持的全部事件
func (m *Machine) Events() map[string]bool {
	events := make(map[string]bool)
	for _, byEvent := range m.transitions {
		for event := range byEvent {
			events[event] = true
		}
	}
	return events
}
