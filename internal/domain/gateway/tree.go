package gateway

// TreeNode 树形选择节点
type TreeNode struct {
	ID       uint       `json:"id"`
	Label    string     `json:"label"`
	Children []TreeNode `json:"children"`
}

// TreeKey 提取节点编号、上级编号与显示名称
type TreeKey[T any] func(item T) (id, parentID uint, label string)

// BuildTree 以 parent_id = 0 为根递归组装树，输入顺序即兄弟节点顺序。
// 无法从根到达的节点（包括环）不会出现在结果中
func BuildTree[T any](items []T, key TreeKey[T]) []TreeNode {
	children := make(map[uint][]int)
	for i, item := range items {
		_, parentID, _ := key(item)
		children[parentID] = append(children[parentID], i)
	}
	visited := make(map[uint]bool)

	var build func(parentID uint) []TreeNode
	build = func(parentID uint) []TreeNode {
		nodes := make([]TreeNode, 0, len(children[parentID]))
		for _, idx := range children[parentID] {
			id, _, label := key(items[idx])
			if visited[id] {
				continue
			}
			visited[id] = true
			nodes = append(nodes, TreeNode{ID: id, Label: label, Children: build(id)})
		}
		return nodes
	}
	return build(0)
}
