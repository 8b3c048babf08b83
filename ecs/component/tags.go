package component

type BallTag struct{}

var BallTagComponent = NewComponent[BallTag]()

type PaddleTag struct{}

var PaddleTagComponent = NewComponent[PaddleTag]()

type BlockTag struct{}

var BlockTagComponent = NewComponent[BlockTag]()

type BottomTag struct{}

var BottomTagComponent = NewComponent[BottomTag]()

type WallTag struct{}

var WallTagComponent = NewComponent[WallTag]()
