package session

import (
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/plan/graph"
)

type strategy struct {
	reduceGraph *graph.Graph
	bcastGraph  *graph.Graph
}

type partitionStrategy func(plan.PeerList) []strategy

type strategyList []strategy

func (sl strategyList) choose(i int) strategy {
	return sl[i%len(sl)]
}

var partitionStrategies = map[base.Strategy]partitionStrategy{
	base.Star:                createStarStrategies,
	base.MultiStar:           createMultiStarStrategies,
	base.Clique:              createCliqueStrategies,
	base.Ring:                createRingStrategies,
	base.Tree:                createTreeStrategies,
	base.BinaryTree:          createBinaryTreeStrategies,
	base.BinaryTreeStar:      createBinaryTreeStarStrategies,
	base.MultiBinaryTreeStar: createMultiBinaryTreeStarStrategies,
}

func simpleSingleGraphStrategy(bcastGraph *graph.Graph) []strategy {
	return []strategy{
		{
			reduceGraph: plan.GenDefaultReduceGraph(bcastGraph),
			bcastGraph:  bcastGraph,
		},
	}
}

func multiGraphStrategies(bcastGraphs []*graph.Graph) []strategy {
	var ss []strategy
	for _, bcastGraph := range bcastGraphs {
		ss = append(ss, strategy{
			reduceGraph: plan.GenDefaultReduceGraph(bcastGraph),
			bcastGraph:  bcastGraph,
		})
	}
	return ss
}

func createStarStrategies(peers plan.PeerList) []strategy {
	bcastGraph := plan.GenStarBcastGraph(len(peers), DefaultRoot)
	return simpleSingleGraphStrategy(bcastGraph)
}

func createMultiStarStrategies(peers plan.PeerList) []strategy {
	return multiGraphStrategies(plan.GenMultiStar(peers))
}

func createTreeStrategies(peers plan.PeerList) []strategy {
	bcastGraph := plan.GenTree(peers)
	return simpleSingleGraphStrategy(bcastGraph)
}

func createBinaryTreeStrategies(peers plan.PeerList) []strategy {
	bcastGraph := plan.GenBinaryTree(len(peers))
	return simpleSingleGraphStrategy(bcastGraph)
}

func createBinaryTreeStarStrategies(peers plan.PeerList) []strategy {
	bcastGraph := plan.GenBinaryTreeStar(peers)
	return simpleSingleGraphStrategy(bcastGraph)
}

func createMultiBinaryTreeStarStrategies(peers plan.PeerList) []strategy {
	return multiGraphStrategies(plan.GenMultiBinaryTreeStar(peers))
}

func createCliqueStrategies(peers plan.PeerList) []strategy {
	k := len(peers)
	var ss []strategy
	for r := 0; r < k; r++ {
		bcastGraph := plan.GenStarBcastGraph(k, r)
		ss = append(ss, strategy{
			reduceGraph: plan.GenDefaultReduceGraph(bcastGraph),
			bcastGraph:  bcastGraph,
		})
	}
	return ss
}

func createRingStrategies(peers plan.PeerList) []strategy {
	k := len(peers)
	var ss []strategy
	for r := 0; r < k; r++ {
		reduceGraph, bcastGraph := plan.GenCircularGraphPair(k, r)
		ss = append(ss, strategy{
			reduceGraph: reduceGraph,
			bcastGraph:  bcastGraph,
		})
	}
	return ss
}

func autoSelect(peers plan.PeerList) base.Strategy {
	if peers.HostCount() == 1 {
		return base.Star
	}
	return base.BinaryTreeStar
}
